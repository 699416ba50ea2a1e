// Package crypto implements the server-side cryptographic boundary: bcrypt
// hashing for the master password and AES-GCM wrapping of the per-user
// vault key under a PBKDF2-derived key. The master password itself is never
// stored; only its hash and material derived from it.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltLength is the size in bytes of the PBKDF2 salt.
	SaltLength = 32
	// IVLength is the AES-GCM nonce size in bytes.
	IVLength = 12
	// KeyLength is the vault key size in bytes (AES-256).
	KeyLength = 32
	// Iterations is the PBKDF2 iteration count.
	Iterations = 320000
)

// GenerateSalt returns a random PBKDF2 salt.
func GenerateSalt() ([]byte, error) {
	return randomBytes(SaltLength)
}

// GenerateIV returns a random AES-GCM nonce.
func GenerateIV() ([]byte, error) {
	return randomBytes(IVLength)
}

// GenerateVaultKey returns a random AES-256 vault key.
func GenerateVaultKey() ([]byte, error) {
	return randomBytes(KeyLength)
}

// DeriveKey derives the key-wrapping key from the master password and salt
// using PBKDF2-SHA256.
func DeriveKey(masterPassword string, salt []byte) []byte {
	return pbkdf2.Key([]byte(masterPassword), salt, Iterations, KeyLength, sha256.New)
}

// WrapVaultKey encrypts the vault key with a key derived from the master
// password, using AES-256-GCM with the given nonce.
func WrapVaultKey(vaultKey []byte, masterPassword string, salt, iv []byte) ([]byte, error) {
	aead, err := newAEAD(masterPassword, salt)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, iv, vaultKey, nil), nil
}

// UnwrapVaultKey reverses WrapVaultKey. It fails when the master password,
// salt, or nonce do not match the ones used for wrapping.
func UnwrapVaultKey(wrapped []byte, masterPassword string, salt, iv []byte) ([]byte, error) {
	aead, err := newAEAD(masterPassword, salt)
	if err != nil {
		return nil, err
	}
	key, err := aead.Open(nil, iv, wrapped, nil)
	if err != nil {
		return nil, fmt.Errorf("unwrap vault key: %w", err)
	}
	return key, nil
}

// HashMasterPassword returns the bcrypt hash of the master password.
func HashMasterPassword(masterPassword string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(masterPassword), bcrypt.DefaultCost)
}

// CompareMasterPassword reports whether the master password matches the
// stored bcrypt hash.
func CompareMasterPassword(hash []byte, masterPassword string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(masterPassword)) == nil
}

func newAEAD(masterPassword string, salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(DeriveKey(masterPassword, salt))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	return aead, nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return b, nil
}
