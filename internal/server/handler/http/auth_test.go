package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/evanli/vaultkeep/internal/middleware"
	"github.com/evanli/vaultkeep/internal/models"
	"github.com/evanli/vaultkeep/internal/service"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	registerErr  error
	loginResult  *models.Session
	loginErr     error
	logoutErr    error
	validateUser string
	validateErr  error
}

func (f *fakeAuthService) Register(ctx context.Context, username, masterPassword string) error {
	return f.registerErr
}

func (f *fakeAuthService) Login(ctx context.Context, username, masterPassword string) (*models.Session, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeAuthService) Logout(ctx context.Context, token string) error {
	return f.logoutErr
}

func (f *fakeAuthService) ValidateSession(ctx context.Context, token string) (string, error) {
	return f.validateUser, f.validateErr
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		service        *fakeAuthService
		expectedCode   int
		expectedSubstr string
	}{
		{
			name:           "invalid JSON",
			body:           `not a json`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "invalid request",
		},
		{
			name:           "empty username",
			body:           `{"username":"","masterPassword":"Abcdef1!"}`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "username does not meet requirements",
		},
		{
			name:           "illegal username",
			body:           `{"username":"ab_1","masterPassword":"Abcdef1!"}`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "username does not meet requirements",
		},
		{
			name:           "weak password",
			body:           `{"username":"alice","masterPassword":"password"}`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusBadRequest,
			expectedSubstr: "password does not meet requirements",
		},
		{
			name:           "username taken",
			body:           `{"username":"alice","masterPassword":"Abcdef1!"}`,
			service:        &fakeAuthService{registerErr: service.ErrUsernameTaken},
			expectedCode:   http.StatusConflict,
			expectedSubstr: "username already registered",
		},
		{
			name:           "internal error",
			body:           `{"username":"alice","masterPassword":"Abcdef1!"}`,
			service:        &fakeAuthService{registerErr: errors.New("db down")},
			expectedCode:   http.StatusInternalServerError,
			expectedSubstr: "internal error",
		},
		{
			name:           "success",
			body:           `{"username":"alice","masterPassword":"Abcdef1!"}`,
			service:        &fakeAuthService{},
			expectedCode:   http.StatusOK,
			expectedSubstr: "account created",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/auth/register", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service, Log: zap.NewNop()}
			h.Register(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}

			buf := new(bytes.Buffer)
			if _, err := buf.ReadFrom(res.Body); err != nil {
				t.Fatalf("failed to read body: %v", err)
			}
			if !bytes.Contains(buf.Bytes(), []byte(tt.expectedSubstr)) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedSubstr, buf.String())
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	session := &models.Session{
		Token:     "tok-1",
		Username:  "alice",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	tests := []struct {
		name         string
		body         string
		service      *fakeAuthService
		expectedCode int
		expectCookie bool
		expectedUser string
	}{
		{
			name:         "invalid JSON",
			body:         `{`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "missing password",
			body:         `{"username":"alice"}`,
			service:      &fakeAuthService{},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "invalid credentials",
			body:         `{"username":"alice","masterPassword":"wrong"}`,
			service:      &fakeAuthService{loginErr: service.ErrInvalidCredentials},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "internal error",
			body:         `{"username":"alice","masterPassword":"Abcdef1!"}`,
			service:      &fakeAuthService{loginErr: errors.New("db down")},
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "success sets cookie",
			body:         `{"username":"alice","masterPassword":"Abcdef1!"}`,
			service:      &fakeAuthService{loginResult: session},
			expectedCode: http.StatusOK,
			expectCookie: true,
			expectedUser: "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service, Log: zap.NewNop()}
			h.Login(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}

			if tt.expectCookie {
				var found bool
				for _, c := range res.Cookies() {
					if c.Name == middleware.SessionCookieName && c.Value == "tok-1" {
						found = true
						if !c.HttpOnly {
							t.Error("session cookie is not HttpOnly")
						}
					}
				}
				if !found {
					t.Error("expected session cookie to be set")
				}

				var payload models.AuthResponse
				if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
					t.Fatalf("failed to decode JSON: %v", err)
				}
				if !payload.Success || payload.User == nil || payload.User.Username != tt.expectedUser {
					t.Errorf("unexpected payload: %+v", payload)
				}
			}
		})
	}
}

func TestAuthHandler_Check(t *testing.T) {
	tests := []struct {
		name          string
		cookie        *http.Cookie
		service       *fakeAuthService
		authenticated bool
		expectedUser  string
	}{
		{
			name:          "no cookie",
			cookie:        nil,
			service:       &fakeAuthService{},
			authenticated: false,
		},
		{
			name:          "invalid session",
			cookie:        &http.Cookie{Name: middleware.SessionCookieName, Value: "bad"},
			service:       &fakeAuthService{validateErr: service.ErrSessionInvalid},
			authenticated: false,
		},
		{
			name:          "valid session",
			cookie:        &http.Cookie{Name: middleware.SessionCookieName, Value: "tok-1"},
			service:       &fakeAuthService{validateUser: "alice"},
			authenticated: true,
			expectedUser:  "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/auth/check", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			h := &AuthHandler{AuthService: tt.service, Log: zap.NewNop()}
			h.Check(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != http.StatusOK {
				t.Fatalf("expected status 200, got %d", res.StatusCode)
			}

			var payload models.CheckResponse
			if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
				t.Fatalf("failed to decode JSON: %v", err)
			}
			if payload.Authenticated != tt.authenticated {
				t.Errorf("authenticated = %v; want %v", payload.Authenticated, tt.authenticated)
			}
			if tt.expectedUser != "" && (payload.User == nil || payload.User.Username != tt.expectedUser) {
				t.Errorf("unexpected user: %+v", payload.User)
			}
		})
	}
}

func TestRouter_LogoutRequiresSession(t *testing.T) {
	svc := &fakeAuthService{validateErr: service.ErrSessionInvalid}
	h := &AuthHandler{AuthService: svc, Log: zap.NewNop()}
	router := NewRouter(h, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", rec.Code)
	}
}

func TestRouter_LogoutWithSession(t *testing.T) {
	svc := &fakeAuthService{validateUser: "alice"}
	h := &AuthHandler{AuthService: svc, Log: zap.NewNop()}
	router := NewRouter(h, zap.NewNop())

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "tok-1"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
