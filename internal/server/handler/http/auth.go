// Package http provides the HTTP handlers for vault account registration,
// login, logout, and session checks.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/evanli/vaultkeep/internal/criteria"
	"github.com/evanli/vaultkeep/internal/middleware"
	"github.com/evanli/vaultkeep/internal/models"
	"github.com/evanli/vaultkeep/internal/service"
)

// AuthService defines the interface for authentication operations required
// by the HTTP handlers.
type AuthService interface {
	// Register creates a new vault account.
	Register(ctx context.Context, username, masterPassword string) error
	// Login verifies credentials and issues a session.
	Login(ctx context.Context, username, masterPassword string) (*models.Session, error)
	// Logout invalidates the session with the given token.
	Logout(ctx context.Context, token string) error
	// ValidateSession resolves a token to its username.
	ValidateSession(ctx context.Context, token string) (string, error)
}

// AuthHandler handles HTTP requests for account and session management.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Log records handler-level failures.
	Log *zap.Logger
}

// Register handles account-creation requests.
// It expects a JSON VaultAccount body and re-checks the onboarding
// criteria server-side, so a client that skips the wizard cannot create an
// account the wizard would reject.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.VaultAccount
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.AuthResponse{Message: "invalid request"})
		return
	}
	if !criteria.ForUsername(req.Username).Satisfied() {
		writeJSON(w, http.StatusBadRequest, models.AuthResponse{Message: "username does not meet requirements"})
		return
	}
	if !criteria.ForPassword(req.MasterPassword).Satisfied() {
		writeJSON(w, http.StatusBadRequest, models.AuthResponse{Message: "password does not meet requirements"})
		return
	}

	err := h.AuthService.Register(r.Context(), req.Username, req.MasterPassword)
	if errors.Is(err, service.ErrUsernameTaken) {
		writeJSON(w, http.StatusConflict, models.AuthResponse{Message: "username already registered"})
		return
	}
	if err != nil {
		h.Log.Error("register failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.AuthResponse{Message: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, models.AuthResponse{
		Success: true,
		Message: "account created",
		User:    &models.UserInfo{Username: req.Username},
	})
}

// Login handles credential-based login requests. On success it sets the
// session cookie and returns the authenticated user. Unknown usernames and
// wrong passwords are both answered with the same 401 body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.VaultAccount
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.MasterPassword == "" {
		writeJSON(w, http.StatusBadRequest, models.AuthResponse{Message: "invalid request"})
		return
	}

	session, err := h.AuthService.Login(r.Context(), req.Username, req.MasterPassword)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, models.AuthResponse{Message: "Invalid username or password"})
		return
	}
	if err != nil {
		h.Log.Error("login failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.AuthResponse{Message: "internal error"})
		return
	}

	http.SetCookie(w, sessionCookie(session.Token, session.ExpiresAt))
	writeJSON(w, http.StatusOK, models.AuthResponse{
		Success: true,
		User:    &models.UserInfo{Username: session.Username},
	})
}

// Logout invalidates the caller's session and clears the cookie. It runs
// behind the session middleware, so the token in context is known valid.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	if err := h.AuthService.Logout(r.Context(), token); err != nil {
		h.Log.Error("logout failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, models.AuthResponse{Message: "internal error"})
		return
	}

	http.SetCookie(w, sessionCookie("", time.Unix(0, 0)))
	writeJSON(w, http.StatusOK, models.AuthResponse{Success: true})
}

// Check reports whether the caller has a valid session. A missing or
// invalid session is not an error here; it answers authenticated=false.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		writeJSON(w, http.StatusOK, models.CheckResponse{Authenticated: false})
		return
	}

	username, err := h.AuthService.ValidateSession(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, service.ErrSessionInvalid) {
			h.Log.Error("session check failed", zap.Error(err))
		}
		writeJSON(w, http.StatusOK, models.CheckResponse{Authenticated: false})
		return
	}

	writeJSON(w, http.StatusOK, models.CheckResponse{
		Authenticated: true,
		User:          &models.UserInfo{Username: username},
	})
}

func sessionCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
