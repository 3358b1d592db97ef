package port

import "context"

// Notifier delivers an outbound notification. Implementations decide
// transport and formatting beyond the subject/body split.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}
