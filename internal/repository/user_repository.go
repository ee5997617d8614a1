package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/suhanachaudhary/harleen-design-backend/internal/domain"
)

// UserFilter narrows listing/counting. Field filters are case-insensitive
// substring matches; Query searches name, email, state and city at once.
type UserFilter struct {
	Query string
	Name  string
	Email string
	State string
	City  string
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByEmailOrPhone resolves a login identifier.
	GetByEmailOrPhone(ctx context.Context, identifier string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter UserFilter) (int, error)
	// List returns a page of users. sortColumn must be a known column;
	// implementations reject anything else.
	List(ctx context.Context, filter UserFilter, sortColumn string, desc bool, limit, offset int) ([]*domain.User, error)
	// EmailTaken reports whether email belongs to a user other than excludeID.
	EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
}
