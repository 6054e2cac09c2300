package auth

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/internal/session"
	"github.com/nambiararyan24/portfolio/models"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*models.AdminUser
	err   error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[string]*models.AdminUser)}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return nil, core.ErrAdminNotFound
	}
	return u, nil
}

func (f *fakeUsers) Create(_ context.Context, u *models.AdminUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Email]; ok {
		return errors.Conflict("exists")
	}
	f.users[u.Email] = u
	return nil
}

func (f *fakeUsers) Count(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users), nil
}

type movableClock struct{ t time.Time }

func (c *movableClock) Now() time.Time { return c.t }

func newService(t *testing.T) (*Service, *fakeUsers, *movableClock) {
	t.Helper()
	users := newFakeUsers()
	clock := &movableClock{t: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	svc := NewService(users, session.NewMemoryStore(), WithCost(bcrypt.MinCost), WithClock(clock))
	_, err := svc.CreateAdmin(context.Background(), " Owner@Example.com ", "correct horse")
	require.NoError(t, err)
	return svc, users, clock
}

func TestLoginAndResolve(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newService(t)
	assert.NotEqual(t, "correct horse", users.users["owner@example.com"].PasswordHash)

	token, s, err := svc.Login(ctx, "OWNER@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "owner@example.com", s.Email)

	got, err := svc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, s.Email, got.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, _, err := svc.Login(ctx, "owner@example.com", "wrong")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
	assert.Equal(t, errors.CodeUnauthorized, errors.GetCode(err))

	_, _, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, core.ErrInvalidCredentials)
}

func TestLoginStoreFailureIsNotUnauthorized(t *testing.T) {
	svc, users, _ := newService(t)
	users.err = stderrors.New("connection refused")
	_, _, err := svc.Login(context.Background(), "owner@example.com", "correct horse")
	require.Error(t, err)
	assert.Equal(t, errors.CodeInternalError, errors.GetCode(err))
}

func TestSessionExpires(t *testing.T) {
	ctx := context.Background()
	svc, _, clock := newService(t)
	token, _, err := svc.Login(ctx, "owner@example.com", "correct horse")
	require.NoError(t, err)

	clock.t = clock.t.Add(DefaultSessionTTL)
	_, err = svc.Resolve(ctx, token)
	assert.Equal(t, errors.CodeUnauthorized, errors.GetCode(err))
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	token, _, err := svc.Login(ctx, "owner@example.com", "correct horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, token))
	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, core.ErrSessionNotFound)
	assert.NoError(t, svc.Logout(ctx, ""))
}

func TestCreateAdminValidation(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.CreateAdmin(context.Background(), "not-an-email", "long enough")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	_, err = svc.CreateAdmin(context.Background(), "a@b.co", "short")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestBootstrap(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	svc := NewService(users, session.NewMemoryStore(), WithCost(bcrypt.MinCost))

	created, err := svc.Bootstrap(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, created)

	created, err = svc.Bootstrap(ctx, "first@example.com", "password123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Bootstrap(ctx, "second@example.com", "password123")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, users.users, 1)
}

func TestRequireAdmin(t *testing.T) {
	svc, _, _ := newService(t)
	token, s, err := svc.Login(context.Background(), "owner@example.com", "correct horse")
	require.NoError(t, err)

	var seen *models.AdminSession
	h := svc.RequireAdmin(func(w http.ResponseWriter, _ *http.Request, _ error) {
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, seen)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/me", nil)
	req.AddCookie(SessionCookie(token, s, true))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "owner@example.com", seen.Email)
}
