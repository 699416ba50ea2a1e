// Package repository provides PostgreSQL persistence for vault accounts and
// sessions.
package repository

import (
	"context"
	"database/sql"

	"github.com/evanli/vaultkeep/internal/models"
)

// PostgresUserRepository implements user persistence using a PostgreSQL
// database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// UserExists checks whether a user with the specified username exists.
func (r *PostgresUserRepository) UserExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		username,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts a new user record.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, u models.User) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (id, username, password_hash, salt, encrypted_key, key_iv)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Username, u.PasswordHash, u.Salt, u.EncryptedKey, u.KeyIV,
	)
	return err
}

// GetUser fetches a user by username. Returns sql.ErrNoRows when the user
// does not exist.
func (r *PostgresUserRepository) GetUser(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, salt, encrypted_key, key_iv
		  FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Salt, &u.EncryptedKey, &u.KeyIV)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
