package port

import (
	"time"

	"parlwatch/internal/domain"
)

// RecordStore persists fetched records keyed by publication date, plus
// the keyword set. A date or range with no stored records yields an
// empty slice, not an error.
type RecordStore interface {
	// SaveRecords stores a day's fetch, replacing whatever was stored
	// for that date before. A fetch is the day's full document set, so
	// re-fetching must not accumulate duplicates.
	SaveRecords(date time.Time, records []domain.Record) error

	RecordsByDate(date time.Time) ([]domain.Record, error)

	// RecordsByRange returns all records for the inclusive day range
	// [start, end], in date order.
	RecordsByRange(start, end time.Time) ([]domain.Record, error)

	PutKeyword(term string) error

	DeleteKeyword(term string) error

	Keywords() ([]string, error)

	Close() error
}
