package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionRepository tracks each user's refresh-token family. Implementations
// receive the raw token and are responsible for hashing before persistence.
// Remove and Rotate use compare-and-remove semantics: the exact token must
// still be present, otherwise domain.ErrNotFound is returned. That property is
// what lets the session manager detect token reuse under concurrent refreshes.
type SessionRepository interface {
	Add(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error
	Remove(ctx context.Context, userID uuid.UUID, token string) error
	// Rotate removes oldToken and inserts newToken as a single unit.
	Rotate(ctx context.Context, userID uuid.UUID, oldToken, newToken string, expiresAt time.Time) error
	Clear(ctx context.Context, userID uuid.UUID) error
	Contains(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	// DeleteExpired sweeps tokens past their expires_at and returns the number
	// of rows removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
