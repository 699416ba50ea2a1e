// Package models defines the core data structures shared between the vault
// server and client.
package models

import "time"

// User represents a registered vault account as stored server-side.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Username is the login name chosen by the user.
	Username string
	// PasswordHash is the bcrypt hash of the master password.
	PasswordHash []byte
	// Salt is the random salt used to derive the key-wrapping key.
	Salt []byte
	// EncryptedKey is the user's vault key, wrapped with a key derived
	// from the master password.
	EncryptedKey []byte
	// KeyIV is the AES-GCM nonce used when wrapping the vault key.
	KeyIV []byte
}

// Session represents an authenticated session held server-side.
type Session struct {
	// Token is the opaque session identifier handed to the client.
	Token string
	// Username is the login name the session belongs to.
	Username string
	// ExpiresAt is the moment the session stops being valid.
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// VaultAccount is the credential pair submitted to the auth endpoints.
// It is a transient value object; the client never retains it beyond the
// call.
type VaultAccount struct {
	Username       string `json:"username"`
	MasterPassword string `json:"masterPassword"`
}

// UserInfo is the public view of a user returned by the auth endpoints.
type UserInfo struct {
	Username string `json:"username"`
}

// AuthResponse is the JSON body returned by register, login, and logout.
type AuthResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	User    *UserInfo `json:"user,omitempty"`
}

// CheckResponse is the JSON body returned by the session check endpoint.
type CheckResponse struct {
	Authenticated bool      `json:"authenticated"`
	User          *UserInfo `json:"user,omitempty"`
}
