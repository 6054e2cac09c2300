package ports

import "context"

// Email is one outgoing HTML message
type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Notifier delivers email. Callers treat every error as non-fatal.
type Notifier interface {
	Send(ctx context.Context, email Email) error
}
