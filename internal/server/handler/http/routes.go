// Package http provides HTTP routing and middleware configuration for the
// vault auth service.
package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/evanli/vaultkeep/internal/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the vault
// auth API. It applies JSON content-type enforcement and request logging,
// and mounts the auth endpoints under /api/auth.
//
// Routes:
//
//	POST /api/auth/register → authHandler.Register
//	POST /api/auth/login    → authHandler.Login
//	POST /api/auth/logout   → authHandler.Logout (requires a valid session)
//	GET  /api/auth/check    → authHandler.Check
func NewRouter(authHandler *AuthHandler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api/auth", func(r chi.Router) {
		// Public endpoints
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/check", authHandler.Check)

		// Protected group: requires a valid session cookie
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(authHandler.AuthService))
			r.Post("/logout", authHandler.Logout)
		})
	})

	return r
}
