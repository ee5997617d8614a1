package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/suhanachaudhary/harleen-design-backend/internal/domain"
	"github.com/suhanachaudhary/harleen-design-backend/internal/repository"
)

type sessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

// Add inserts a refresh token into the user's family
func (r *sessionRepository) Add(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO session_tokens (user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, userID, hashToken(token), expiresAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to add session token: %w", err)
	}

	return nil
}

// Remove deletes the exact token if present. The rows-affected check makes
// this a compare-and-remove: a concurrent caller that already consumed the
// token observes domain.ErrNotFound, never a silent double-spend.
func (r *sessionRepository) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	return r.remove(ctx, r.db, userID, token)
}

// Rotate removes oldToken and inserts newToken inside one transaction, so no
// reader ever observes a state where both are absent.
func (r *sessionRepository) Rotate(ctx context.Context, userID uuid.UUID, oldToken, newToken string, expiresAt time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rotation: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.remove(ctx, tx, userID, oldToken); err != nil {
		return err
	}

	query := `
		INSERT INTO session_tokens (user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, query, userID, hashToken(newToken), expiresAt, time.Now()); err != nil {
		return fmt.Errorf("failed to insert rotated token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rotation: %w", err)
	}

	return nil
}

// Clear removes the user's entire token family
func (r *sessionRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear session tokens: %w", err)
	}

	return nil
}

// Contains reports whether the exact token is still on record for the user
func (r *sessionRepository) Contains(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM session_tokens WHERE user_id = $1 AND token_hash = $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userID, hashToken(token))
	if err != nil {
		return false, fmt.Errorf("failed to check session token: %w", err)
	}

	return exists, nil
}

// DeleteExpired sweeps tokens past their expiry
func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM session_tokens WHERE expires_at <= $1`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired session tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}

func (r *sessionRepository) remove(ctx context.Context, e sqlx.ExecerContext, userID uuid.UUID, token string) error {
	query := `DELETE FROM session_tokens WHERE user_id = $1 AND token_hash = $2`

	result, err := e.ExecContext(ctx, query, userID, hashToken(token))
	if err != nil {
		return fmt.Errorf("failed to remove session token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// hashToken creates a SHA-256 hash of the token; raw tokens never hit disk.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
