// Package auth implements the admin back office login. Passwords are bcrypt
// hashes in admin_users; a login issues an opaque token whose SHA-256 keys a
// server-side session.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nambiararyan24/portfolio/domain/core"
	applog "github.com/nambiararyan24/portfolio/internal"
	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/models"
	"github.com/nambiararyan24/portfolio/ports"
)

const (
	DefaultSessionTTL = 12 * time.Hour
	MinPasswordLength = 8
	tokenBytes        = 32
)

// dummyHash is compared against when the email is unknown so both paths cost
// one bcrypt run.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("portfolio-placeholder"), bcrypt.DefaultCost)

// Service handles admin credentials and sessions
type Service struct {
	users    ports.AdminUserRepository
	sessions ports.AdminSessionStore
	ttl      time.Duration
	cost     int
	clock    core.Clock
	logger   *applog.Logger
}

type Option func(*Service)

func WithTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithCost lowers the bcrypt cost; tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func WithClock(c core.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithLogger(l *applog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(users ports.AdminUserRepository, sessions ports.AdminSessionStore, opts ...Option) *Service {
	s := &Service{
		users:    users,
		sessions: sessions,
		ttl:      DefaultSessionTTL,
		cost:     bcrypt.DefaultCost,
		clock:    core.SystemClock{},
		logger:   applog.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL is the lifetime of a new session
func (s *Service) TTL() time.Duration { return s.ttl }

// Login checks credentials and opens a session. The returned token goes in
// the cookie; only its hash is stored.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.AdminSession, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !core.IsNotFoundError(err) {
			return "", nil, errors.Wrap(err, "failed to load admin user")
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		s.logger.Warn("[Auth] login failed for unknown admin %s", email)
		return "", nil, invalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("[Auth] login failed for %s", email)
		return "", nil, invalidCredentials()
	}

	token, err := newToken()
	if err != nil {
		return "", nil, errors.Wrap(err, "failed to generate session token")
	}
	session := models.AdminSession{Email: user.Email, ExpiresAt: s.clock.Now().Add(s.ttl)}
	if err := s.sessions.Save(ctx, core.HashToken(token), session, s.ttl); err != nil {
		return "", nil, errors.Wrap(err, "failed to store admin session")
	}
	s.logger.Info("[Auth] admin %s logged in", user.Email)
	return token, &session, nil
}

// Resolve maps a cookie token to its session
func (s *Service) Resolve(ctx context.Context, token string) (*models.AdminSession, error) {
	if token == "" {
		return nil, errors.WithCode(errors.CodeUnauthorized, core.ErrSessionNotFound)
	}
	session, err := s.sessions.Get(ctx, core.HashToken(token))
	if err != nil {
		if stderrors.Is(err, core.ErrSessionNotFound) {
			return nil, errors.WithCode(errors.CodeUnauthorized, err)
		}
		return nil, errors.Wrap(err, "failed to load admin session")
	}
	if !s.clock.Now().Before(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, core.HashToken(token))
		return nil, errors.WithCode(errors.CodeUnauthorized, core.ErrSessionExpired)
	}
	return session, nil
}

// Logout deletes the server-side session. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.Delete(ctx, core.HashToken(token))
}

// CreateAdmin hashes password and stores a new account
func (s *Service) CreateAdmin(ctx context.Context, email, password string) (*models.AdminUser, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return nil, errors.InvalidInput("a valid email is required")
	}
	if len(password) < MinPasswordLength {
		return nil, errors.InvalidInput(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash password")
	}
	user := &models.AdminUser{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("[Auth] created admin %s", email)
	return user, nil
}

// Bootstrap creates the first admin from configuration when none exists.
// It returns false when nothing was created.
func (s *Service) Bootstrap(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	n, err := s.users.Count(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to count admin users")
	}
	if n > 0 {
		return false, nil
	}
	if _, err := s.CreateAdmin(ctx, email, password); err != nil {
		return false, err
	}
	return true, nil
}

func invalidCredentials() error {
	return errors.WithCode(errors.CodeUnauthorized, core.ErrInvalidCredentials)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
