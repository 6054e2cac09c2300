package ports

import (
	"context"
	"time"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/models"
)

// AdminSessionStore keeps admin sessions server-side, keyed by the hash of
// the cookie token.
type AdminSessionStore interface {
	Save(ctx context.Context, key core.Hash, session models.AdminSession, ttl time.Duration) error

	// Get returns core.ErrSessionNotFound for unknown or expired keys
	Get(ctx context.Context, key core.Hash) (*models.AdminSession, error)
	Delete(ctx context.Context, key core.Hash) error
}
