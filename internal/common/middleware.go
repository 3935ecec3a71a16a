package common

import (
	"context"
	"net/http"
	"strings"
)

// Session is the authenticated caller's identity, carried explicitly in the
// request context instead of any package-level "current user" state.
type Session struct {
	AccountID string
	Username  string
}

type contextKey string

const sessionKey contextKey = "session"

// SessionFromContext returns the Session injected by AuthMiddleware.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey).(Session)
	return s, ok
}

// WithSession is used by tests to build pre-authenticated requests.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// AuthMiddleware enforces bearer-token auth on every route it wraps:
// parse the Authorization header, validate the JWT, inject the caller's
// Session into the context, and only then pass the request on.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}

		// header = Bearer <token>
		parts := strings.Fields(header)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			http.Error(w, "invalid auth header", http.StatusUnauthorized)
			return
		}

		claims, err := ValidToken(parts[1])
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := WithSession(r.Context(), Session{
			AccountID: claims.AccountID,
			Username:  claims.Username,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
