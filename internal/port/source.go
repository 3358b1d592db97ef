package port

import (
	"context"
	"time"

	"parlwatch/internal/domain"
)

// DocumentSource retrieves legislative documents from an upstream
// provider. Implementations own their own timeout and retry policy; a
// failed fetch is reported as an error, never as an empty result.
type DocumentSource interface {
	// FetchByDate returns the documents published on the given day.
	FetchByDate(ctx context.Context, date time.Time) ([]domain.Record, error)

	// FetchYear returns up to limit documents for a calendar year.
	FetchYear(ctx context.Context, year int, limit int) ([]domain.Record, error)
}
