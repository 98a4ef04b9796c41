package middleware

import (
	"context"
	"net/http"

	"github.com/dakshh-official/dakshh-api/internal/domain"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/adminsession"
)

type contextKey string

const SessionKey contextKey = "admin_session"

// AdminAuth returns middleware that validates the admin session cookie and
// injects the decoded session into the request context.
func AdminAuth(authority *adminsession.Authority) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(adminsession.CookieName)
			if err != nil || cookie.Value == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			session, err := authority.Verify(cookie.Value)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired session")
				return
			}
			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext extracts the admin session from the request context.
func SessionFromContext(ctx context.Context) (*domain.AdminSession, bool) {
	s, ok := ctx.Value(SessionKey).(*domain.AdminSession)
	return s, ok
}

// RequireCapability returns middleware that allows the request only when the
// session holds the given capability under the domain.Authorize policy.
func RequireCapability(capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !domain.Authorize(session, capability) {
				writeJSONError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
