package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrServiceNotFound = fmt.Errorf("%w: service", ErrNotFound)
	ErrProjectNotFound = fmt.Errorf("%w: project", ErrNotFound)
	ErrReviewNotFound  = fmt.Errorf("%w: review", ErrNotFound)
	ErrLeadNotFound    = fmt.Errorf("%w: lead", ErrNotFound)
	ErrToolNotFound    = fmt.Errorf("%w: tool", ErrNotFound)
	ErrAdminNotFound   = fmt.Errorf("%w: admin user", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)
	ErrFormNotFound    = fmt.Errorf("%w: form", ErrNotFound)

	// Input errors
	ErrInvalidID     = errors.New("invalid identifier")
	ErrUnknownField  = errors.New("unknown form field")
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")

	// Form lifecycle errors
	ErrStepInvalid        = errors.New("step has invalid fields")
	ErrNotLastStep        = errors.New("submit is only allowed on the last step")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	ErrSessionClosed      = errors.New("form session already submitted")
	ErrSessionLimit       = errors.New("too many open form sessions")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionExpired     = errors.New("admin session expired")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsLifecycleError reports errors caused by calling a form operation in the
// wrong state.
func IsLifecycleError(err error) bool {
	return errors.Is(err, ErrNotLastStep) ||
		errors.Is(err, ErrSubmissionInFlight) ||
		errors.Is(err, ErrSessionClosed)
}
