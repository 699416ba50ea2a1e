package middleware

import (
	"context"
	"net/http"
)

type ctxKey string

const (
	userKey  ctxKey = "user"
	tokenKey ctxKey = "token"
)

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "vault_session"

// SessionValidator resolves a session token to the username it belongs to.
type SessionValidator interface {
	// ValidateSession returns the username for a valid token, or an error
	// for unknown and expired tokens.
	ValidateSession(ctx context.Context, token string) (string, error)
}

// SessionAuth is a middleware that enforces cookie-based session
// authentication.
//
// It reads the session cookie, validates the token, and stores the
// authenticated username and the token in the request context so they can
// be used downstream. Requests without a valid session are rejected with
// 401.
func SessionAuth(validator SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}

			username, err := validator.ValidateSession(r.Context(), cookie.Value)
			if err != nil {
				http.Error(w, "session invalid or expired", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, username)
			ctx = context.WithValue(ctx, tokenKey, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated username from the request
// context. Returns an empty string if not found.
func GetUserFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(userKey).(string); ok {
		return s
	}
	return ""
}

// GetTokenFromContext extracts the session token from the request context.
// Returns an empty string if not found.
func GetTokenFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(tokenKey).(string); ok {
		return s
	}
	return ""
}
