package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeValidator struct {
	username string
	err      error
}

func (f *fakeValidator) ValidateSession(ctx context.Context, token string) (string, error) {
	return f.username, f.err
}

func TestSessionAuth(t *testing.T) {
	tests := []struct {
		name         string
		cookie       *http.Cookie
		validator    *fakeValidator
		expectedCode int
		expectedUser string
	}{
		{
			name:         "no cookie",
			cookie:       nil,
			validator:    &fakeValidator{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "empty cookie value",
			cookie:       &http.Cookie{Name: SessionCookieName, Value: ""},
			validator:    &fakeValidator{},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "invalid token",
			cookie:       &http.Cookie{Name: SessionCookieName, Value: "bad"},
			validator:    &fakeValidator{err: errors.New("session invalid or expired")},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:         "valid session",
			cookie:       &http.Cookie{Name: SessionCookieName, Value: "tok-1"},
			validator:    &fakeValidator{username: "alice"},
			expectedCode: http.StatusOK,
			expectedUser: "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser, gotToken string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = GetUserFromContext(r.Context())
				gotToken = GetTokenFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}

			SessionAuth(tt.validator)(next).ServeHTTP(rec, req)

			if rec.Code != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, rec.Code)
			}
			if tt.expectedUser != "" {
				if gotUser != tt.expectedUser {
					t.Errorf("context user = %q; want %q", gotUser, tt.expectedUser)
				}
				if gotToken != tt.cookie.Value {
					t.Errorf("context token = %q; want %q", gotToken, tt.cookie.Value)
				}
			}
		})
	}
}

func TestGetUserFromContext_Missing(t *testing.T) {
	if got := GetUserFromContext(context.Background()); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
