package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/evanli/vaultkeep/internal/models"
)

// PostgresSessionRepository implements session persistence using a
// PostgreSQL database.
type PostgresSessionRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository with
// the given database connection.
func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{DB: db}
}

// CreateSession inserts a new session record.
func (r *PostgresSessionRepository) CreateSession(ctx context.Context, s models.Session) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO sessions (token, username, expires_at) VALUES ($1, $2, $3)`,
		s.Token, s.Username, s.ExpiresAt,
	)
	return err
}

// GetSession fetches a session by its token. Returns sql.ErrNoRows when no
// such session exists.
func (r *PostgresSessionRepository) GetSession(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	err := r.DB.QueryRowContext(ctx, `
		SELECT token, username, expires_at FROM sessions WHERE token = $1
	`, token).Scan(&s.Token, &s.Username, &s.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSession removes the session with the given token. Deleting a token
// that does not exist is not an error.
func (r *PostgresSessionRepository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

// DeleteUserSessions removes every session belonging to the given user.
func (r *PostgresSessionRepository) DeleteUserSessions(ctx context.Context, username string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE username = $1`, username)
	return err
}

// DeleteExpired removes sessions that expired before now and returns how
// many were removed.
func (r *PostgresSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
