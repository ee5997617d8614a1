package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionToken is one outstanding refresh grant for a user. The raw token is
// never stored; only its SHA-256 hash reaches the database. All rows for one
// user form that user's token family (one row per active device).
type SessionToken struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	TokenHash string    `json:"-" db:"token_hash"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
