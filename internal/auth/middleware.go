package auth

import (
	"context"
	"net/http"

	"github.com/nambiararyan24/portfolio/models"
)

// CookieName carries the admin session token
const CookieName = "portfolio_admin"

type sessionKey struct{}

// WithSession stores the resolved admin session on ctx
func WithSession(ctx context.Context, s *models.AdminSession) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the admin session placed by RequireAdmin, or nil
func SessionFrom(ctx context.Context) *models.AdminSession {
	s, _ := ctx.Value(sessionKey{}).(*models.AdminSession)
	return s
}

// TokenFrom reads the session cookie
func TokenFrom(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// RequireAdmin rejects requests without a live admin session. onError
// writes the failure response so the HTTP layer keeps one error format.
func (s *Service) RequireAdmin(onError func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := s.Resolve(r.Context(), TokenFrom(r))
			if err != nil {
				onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// SessionCookie builds the cookie for a fresh login
func SessionCookie(token string, s *models.AdminSession, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the session cookie
func ClearCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
