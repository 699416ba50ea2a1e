// Package service provides authentication business logic, delegating
// persistence to repositories.
package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evanli/vaultkeep/internal/crypto"
	"github.com/evanli/vaultkeep/internal/models"
)

// ErrUsernameTaken is returned by Register when the username is already in
// use.
var ErrUsernameTaken = errors.New("username already registered")

// ErrInvalidCredentials is returned by Login for an unknown username or a
// wrong password. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrSessionInvalid is returned by ValidateSession for unknown or expired
// tokens.
var ErrSessionInvalid = errors.New("session invalid or expired")

// UserRepository defines the user persistence operations required by the
// authentication service.
type UserRepository interface {
	// UserExists returns true if a user with the given username exists.
	UserExists(ctx context.Context, username string) (bool, error)
	// CreateUser creates a new user record.
	CreateUser(ctx context.Context, u models.User) error
	// GetUser fetches a user by username; sql.ErrNoRows when absent.
	GetUser(ctx context.Context, username string) (*models.User, error)
}

// SessionRepository defines the session persistence operations required by
// the authentication service.
type SessionRepository interface {
	// CreateSession stores a new session.
	CreateSession(ctx context.Context, s models.Session) error
	// GetSession fetches a session by token; sql.ErrNoRows when absent.
	GetSession(ctx context.Context, token string) (*models.Session, error)
	// DeleteSession removes the session with the given token.
	DeleteSession(ctx context.Context, token string) error
	// DeleteUserSessions removes every session of the given user.
	DeleteUserSessions(ctx context.Context, username string) error
}

// AuthService implements registration, login, and session validation.
type AuthService struct {
	users      UserRepository
	sessions   SessionRepository
	sessionTTL time.Duration
	log        *zap.Logger
}

// NewAuthService constructs an AuthService over the given repositories.
// log may be nil.
func NewAuthService(users UserRepository, sessions SessionRepository, sessionTTL time.Duration, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, sessions: sessions, sessionTTL: sessionTTL, log: log}
}

// Register creates a new vault account: the master password is bcrypt
// hashed, and a random vault key is generated and wrapped with a key
// derived from the master password. The master password itself is never
// stored. Returns ErrUsernameTaken when the username is in use.
func (s *AuthService) Register(ctx context.Context, username, masterPassword string) error {
	exists, err := s.users.UserExists(ctx, username)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if exists {
		return ErrUsernameTaken
	}

	hash, err := crypto.HashMasterPassword(masterPassword)
	if err != nil {
		return fmt.Errorf("hash master password: %w", err)
	}

	salt, err := crypto.GenerateSalt()
	if err != nil {
		return err
	}
	iv, err := crypto.GenerateIV()
	if err != nil {
		return err
	}
	vaultKey, err := crypto.GenerateVaultKey()
	if err != nil {
		return err
	}
	wrapped, err := crypto.WrapVaultKey(vaultKey, masterPassword, salt, iv)
	if err != nil {
		return fmt.Errorf("wrap vault key: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		EncryptedKey: wrapped,
		KeyIV:        iv,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	s.log.Info("registered user", zap.String("username", username))
	return nil
}

// Login verifies the credentials and issues a new session. It returns
// ErrInvalidCredentials for both unknown usernames and wrong passwords.
func (s *AuthService) Login(ctx context.Context, username, masterPassword string) (*models.Session, error) {
	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !crypto.CompareMasterPassword(user.PasswordHash, masterPassword) {
		return nil, ErrInvalidCredentials
	}

	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}
	session := models.Session{
		Token:     token,
		Username:  user.Username,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.log.Info("user logged in", zap.String("username", username))
	return &session, nil
}

// Logout invalidates the session with the given token. Unknown tokens are
// not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// LogoutAll invalidates every session of the given user.
func (s *AuthService) LogoutAll(ctx context.Context, username string) error {
	return s.sessions.DeleteUserSessions(ctx, username)
}

// ValidateSession resolves a token to its username. Unknown and expired
// tokens both yield ErrSessionInvalid.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (string, error) {
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSessionInvalid
		}
		return "", fmt.Errorf("get session: %w", err)
	}
	if session.Expired(time.Now()) {
		return "", ErrSessionInvalid
	}
	return session.Username, nil
}

// newSessionToken returns a 32-byte random token, base64url encoded
// without padding.
func newSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
