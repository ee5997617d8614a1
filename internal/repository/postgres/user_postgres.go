package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/suhanachaudhary/harleen-design-backend/internal/domain"
	"github.com/suhanachaudhary/harleen-design-backend/internal/repository"
)

const userColumns = `id, name, email, phone, password_hash, profile_image,
	   address, state, city, country, pincode, role, created_at, updated_at`

// Columns List/Count may sort by. Anything else is rejected before it can
// reach the query string.
var sortableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"email":      true,
}

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			id, name, email, phone, password_hash, profile_image,
			address, state, city, country, pincode, role, created_at, updated_at
		) VALUES (
			:id, :name, :email, :phone, :password_hash, :profile_image,
			:address, :state, :city, :country, :pincode, :role, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// GetByEmailOrPhone resolves a login identifier against either column.
func (r *userRepository) GetByEmailOrPhone(ctx context.Context, identifier string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR phone = $2 LIMIT 1`

	var user domain.User
	err := r.db.GetContext(ctx, &user, query, normalizeEmail(identifier), identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by identifier: %w", err)
	}

	return &user, nil
}

// Update persists all mutable user fields
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = :name,
			email = :email,
			phone = :phone,
			password_hash = :password_hash,
			profile_image = :profile_image,
			address = :address,
			state = :state,
			city = :city,
			country = :country,
			pincode = :pincode,
			role = :role,
			updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
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

// Delete removes a user. Session tokens go with the user via ON DELETE CASCADE.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
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

// Count returns how many users match the filter
func (r *userRepository) Count(ctx context.Context, filter repository.UserFilter) (int, error) {
	where, args := buildUserFilter(filter)

	var total int
	err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return total, nil
}

// List returns a page of users matching the filter
func (r *userRepository) List(ctx context.Context, filter repository.UserFilter, sortColumn string, desc bool, limit, offset int) ([]*domain.User, error) {
	if !sortableColumns[sortColumn] {
		return nil, fmt.Errorf("unsortable column %q: %w", sortColumn, domain.ErrValidation)
	}

	direction := "ASC"
	if desc {
		direction = "DESC"
	}

	where, args := buildUserFilter(filter)
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		userColumns, where, sortColumn, direction, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var users []*domain.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// EmailTaken reports whether email belongs to a user other than excludeID
func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, normalizeEmail(email), excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	return exists, nil
}

// buildUserFilter renders the WHERE clause for Count and List. Each field
// filter is an ILIKE substring match; Query fans out across the searchable
// columns.
func buildUserFilter(filter repository.UserFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(clause string, value string) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.Query != "" {
		add(`(name ILIKE '%%' || $%d || '%%' OR email ILIKE '%%' || $%[1]d || '%%' OR state ILIKE '%%' || $%[1]d || '%%' OR city ILIKE '%%' || $%[1]d || '%%')`, filter.Query)
	}
	if filter.Name != "" {
		add(`name ILIKE '%%' || $%d || '%%'`, filter.Name)
	}
	if filter.Email != "" {
		add(`email ILIKE '%%' || $%d || '%%'`, filter.Email)
	}
	if filter.State != "" {
		add(`state ILIKE '%%' || $%d || '%%'`, filter.State)
	}
	if filter.City != "" {
		add(`city ILIKE '%%' || $%d || '%%'`, filter.City)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
