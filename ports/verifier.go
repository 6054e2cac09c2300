package ports

import "context"

// Verification is the outcome of a bot check
type Verification struct {
	Checked bool
	Human   bool
	Score   float64
	Reason  string
}

// Verifier checks a client token against a bot detection service. It is
// advisory: an unavailable verifier never blocks a submission.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) (Verification, error)
}
