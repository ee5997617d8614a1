package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/suhanachaudhary/harleen-design-backend/internal/domain"
	"github.com/suhanachaudhary/harleen-design-backend/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository with optional error injection.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	createErr error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			cp := *user
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) GetByEmailOrPhone(_ context.Context, identifier string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, identifier) || user.Phone == identifier {
			cp := *user
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context, filter repository.UserFilter) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filtered(filter)), nil
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter, sortColumn string, desc bool, limit, offset int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := r.filtered(filter)
	sort.Slice(matched, func(i, j int) bool {
		var less bool
		switch sortColumn {
		case "name":
			less = matched[i].Name < matched[j].Name
		case "email":
			less = matched[i].Email < matched[j].Email
		case "updated_at":
			less = matched[i].UpdatedAt.Before(matched[j].UpdatedAt)
		default:
			less = matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		if desc {
			return !less
		}
		return less
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]*domain.User, len(matched))
	for i, user := range matched {
		cp := *user
		out[i] = &cp
	}
	return out, nil
}

func (r *fakeUserRepo) EmailTaken(_ context.Context, email string, excludeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID != excludeID && strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) filtered(filter repository.UserFilter) []*domain.User {
	contains := func(haystack, needle string) bool {
		return needle == "" || strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}

	var matched []*domain.User
	for _, user := range r.users {
		if filter.Query != "" {
			q := strings.ToLower(filter.Query)
			hit := strings.Contains(strings.ToLower(user.Name), q) ||
				strings.Contains(strings.ToLower(user.Email), q) ||
				strings.Contains(strings.ToLower(user.State), q) ||
				strings.Contains(strings.ToLower(user.City), q)
			if !hit {
				continue
			}
		}
		if !contains(user.Name, filter.Name) ||
			!contains(user.Email, filter.Email) ||
			!contains(user.State, filter.State) ||
			!contains(user.City, filter.City) {
			continue
		}
		matched = append(matched, user)
	}
	return matched
}

// fakeSessionRepo keeps token families in memory. Rotate is atomic under the
// mutex, mirroring the transactional compare-and-remove of the SQL
// implementation.
type fakeSessionRepo struct {
	mu       sync.Mutex
	families map[uuid.UUID]map[string]time.Time
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{families: make(map[uuid.UUID]map[string]time.Time)}
}

func (r *fakeSessionRepo) Add(_ context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	family, ok := r.families[userID]
	if !ok {
		family = make(map[string]time.Time)
		r.families[userID] = family
	}
	family[token] = expiresAt
	return nil
}

func (r *fakeSessionRepo) Remove(_ context.Context, userID uuid.UUID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	family := r.families[userID]
	if _, ok := family[token]; !ok {
		return domain.ErrNotFound
	}
	delete(family, token)
	return nil
}

func (r *fakeSessionRepo) Rotate(_ context.Context, userID uuid.UUID, oldToken, newToken string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	family := r.families[userID]
	if _, ok := family[oldToken]; !ok {
		return domain.ErrNotFound
	}
	delete(family, oldToken)
	family[newToken] = expiresAt
	return nil
}

func (r *fakeSessionRepo) Clear(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.families, userID)
	return nil
}

func (r *fakeSessionRepo) Contains(_ context.Context, userID uuid.UUID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.families[userID][token]
	return ok, nil
}

func (r *fakeSessionRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var removed int64
	for userID, family := range r.families {
		for token, expiresAt := range family {
			if expiresAt.Before(now) {
				delete(family, token)
				removed++
			}
		}
		if len(family) == 0 {
			delete(r.families, userID)
		}
	}
	return removed, nil
}

func (r *fakeSessionRepo) familySize(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.families[userID])
}

// fakeLimiter records calls and can be toggled to deny.
type fakeLimiter struct {
	mu        sync.Mutex
	deny      bool
	failures  int
	successes int
}

func (l *fakeLimiter) Allow(context.Context, string, string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.deny, nil
}

func (l *fakeLimiter) Failure(context.Context, string, string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures++
	return nil
}

func (l *fakeLimiter) Success(context.Context, string, string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.successes++
	return nil
}
