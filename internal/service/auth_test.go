package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/evanli/vaultkeep/internal/crypto"
	"github.com/evanli/vaultkeep/internal/models"
)

type mockUserRepo struct {
	UserExistsFunc func(ctx context.Context, username string) (bool, error)
	CreateUserFunc func(ctx context.Context, u models.User) error
	GetUserFunc    func(ctx context.Context, username string) (*models.User, error)
}

func (m *mockUserRepo) UserExists(ctx context.Context, username string) (bool, error) {
	return m.UserExistsFunc(ctx, username)
}
func (m *mockUserRepo) CreateUser(ctx context.Context, u models.User) error {
	return m.CreateUserFunc(ctx, u)
}
func (m *mockUserRepo) GetUser(ctx context.Context, username string) (*models.User, error) {
	return m.GetUserFunc(ctx, username)
}

type mockSessionRepo struct {
	CreateSessionFunc      func(ctx context.Context, s models.Session) error
	GetSessionFunc         func(ctx context.Context, token string) (*models.Session, error)
	DeleteSessionFunc      func(ctx context.Context, token string) error
	DeleteUserSessionsFunc func(ctx context.Context, username string) error
}

func (m *mockSessionRepo) CreateSession(ctx context.Context, s models.Session) error {
	return m.CreateSessionFunc(ctx, s)
}
func (m *mockSessionRepo) GetSession(ctx context.Context, token string) (*models.Session, error) {
	return m.GetSessionFunc(ctx, token)
}
func (m *mockSessionRepo) DeleteSession(ctx context.Context, token string) error {
	return m.DeleteSessionFunc(ctx, token)
}
func (m *mockSessionRepo) DeleteUserSessions(ctx context.Context, username string) error {
	return m.DeleteUserSessionsFunc(ctx, username)
}

func TestRegister_Success(t *testing.T) {
	var created *models.User
	users := &mockUserRepo{
		UserExistsFunc: func(ctx context.Context, username string) (bool, error) {
			return false, nil
		},
		CreateUserFunc: func(ctx context.Context, u models.User) error {
			created = &u
			return nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{}, time.Hour, nil)

	if err := svc.Register(context.Background(), "alice", "Abcdef1!"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if created == nil {
		t.Fatal("expected CreateUser to be called")
	}
	if created.Username != "alice" {
		t.Errorf("created username = %q; want %q", created.Username, "alice")
	}
	if created.ID == "" {
		t.Error("expected a generated user id")
	}
	if string(created.PasswordHash) == "Abcdef1!" {
		t.Error("master password stored unhashed")
	}
	if !crypto.CompareMasterPassword(created.PasswordHash, "Abcdef1!") {
		t.Error("stored hash does not match master password")
	}
	if len(created.Salt) != crypto.SaltLength || len(created.KeyIV) != crypto.IVLength {
		t.Errorf("unexpected salt/iv sizes: %d/%d", len(created.Salt), len(created.KeyIV))
	}
	key, err := crypto.UnwrapVaultKey(created.EncryptedKey, "Abcdef1!", created.Salt, created.KeyIV)
	if err != nil {
		t.Fatalf("stored vault key does not unwrap: %v", err)
	}
	if len(key) != crypto.KeyLength {
		t.Errorf("vault key length = %d; want %d", len(key), crypto.KeyLength)
	}
}

func TestRegister_UsernameTaken(t *testing.T) {
	users := &mockUserRepo{
		UserExistsFunc: func(ctx context.Context, username string) (bool, error) {
			return true, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{}, time.Hour, nil)

	err := svc.Register(context.Background(), "alice", "Abcdef1!")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("Register error = %v; want ErrUsernameTaken", err)
	}
}

func TestLogin_Success(t *testing.T) {
	hash, err := crypto.HashMasterPassword("Abcdef1!")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	users := &mockUserRepo{
		GetUserFunc: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{ID: "id-1", Username: "alice", PasswordHash: hash}, nil
		},
	}
	var stored *models.Session
	sessions := &mockSessionRepo{
		CreateSessionFunc: func(ctx context.Context, s models.Session) error {
			stored = &s
			return nil
		},
	}
	svc := NewAuthService(users, sessions, 7*24*time.Hour, nil)

	session, err := svc.Login(context.Background(), "alice", "Abcdef1!")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.Token == "" || len(session.Token) < 40 {
		t.Errorf("unexpected token %q", session.Token)
	}
	if session.Username != "alice" {
		t.Errorf("session username = %q; want alice", session.Username)
	}
	if time.Until(session.ExpiresAt) < 6*24*time.Hour {
		t.Errorf("session expires too soon: %v", session.ExpiresAt)
	}
	if stored == nil || stored.Token != session.Token {
		t.Error("session was not persisted")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, _ := crypto.HashMasterPassword("Abcdef1!")
	users := &mockUserRepo{
		GetUserFunc: func(ctx context.Context, username string) (*models.User, error) {
			return &models.User{Username: "alice", PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{}, time.Hour, nil)

	_, err := svc.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login error = %v; want ErrInvalidCredentials", err)
	}
}

func TestLogin_UnknownUser(t *testing.T) {
	users := &mockUserRepo{
		GetUserFunc: func(ctx context.Context, username string) (*models.User, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewAuthService(users, &mockSessionRepo{}, time.Hour, nil)

	_, err := svc.Login(context.Background(), "ghost", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login error = %v; want ErrInvalidCredentials", err)
	}
}

func TestValidateSession(t *testing.T) {
	sessions := &mockSessionRepo{
		GetSessionFunc: func(ctx context.Context, token string) (*models.Session, error) {
			switch token {
			case "live":
				return &models.Session{Token: token, Username: "alice", ExpiresAt: time.Now().Add(time.Hour)}, nil
			case "stale":
				return &models.Session{Token: token, Username: "alice", ExpiresAt: time.Now().Add(-time.Hour)}, nil
			default:
				return nil, sql.ErrNoRows
			}
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions, time.Hour, nil)

	username, err := svc.ValidateSession(context.Background(), "live")
	if err != nil {
		t.Fatalf("ValidateSession returned error: %v", err)
	}
	if username != "alice" {
		t.Errorf("username = %q; want alice", username)
	}

	if _, err := svc.ValidateSession(context.Background(), "stale"); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("stale token error = %v; want ErrSessionInvalid", err)
	}
	if _, err := svc.ValidateSession(context.Background(), "missing"); !errors.Is(err, ErrSessionInvalid) {
		t.Errorf("missing token error = %v; want ErrSessionInvalid", err)
	}
}

func TestLogout(t *testing.T) {
	deleted := ""
	sessions := &mockSessionRepo{
		DeleteSessionFunc: func(ctx context.Context, token string) error {
			deleted = token
			return nil
		},
	}
	svc := NewAuthService(&mockUserRepo{}, sessions, time.Hour, nil)

	if err := svc.Logout(context.Background(), "tok-1"); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if deleted != "tok-1" {
		t.Errorf("deleted token = %q; want tok-1", deleted)
	}
}
