package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suhanachaudhary/harleen-design-backend/internal/domain"
	"github.com/suhanachaudhary/harleen-design-backend/internal/repository"
	"github.com/suhanachaudhary/harleen-design-backend/pkg/hash"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// UserService implements role-gated CRUD over profiles. Every operation takes
// the verified access-token claims of the requester and enforces the
// admin-or-self rule before touching storage.
type UserService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	hasher      *hash.Hasher
	logger      *zap.Logger
	now         func() time.Time
}

type ListRequest struct {
	Page  int    `query:"page" validate:"omitempty,gte=1"`
	Limit int    `query:"limit" validate:"omitempty,gte=1,lte=100"`
	Sort  string `query:"sort"`
	Query string `query:"q"`
	Name  string `query:"name"`
	Email string `query:"email"`
	State string `query:"state"`
	City  string `query:"city"`
}

type ListResponse struct {
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int            `json:"total"`
	Pages int            `json:"pages"`
	Data  []*domain.User `json:"data"`
}

// UpdateRequest carries a partial profile; nil fields are left untouched.
type UpdateRequest struct {
	Name     *string `json:"name" form:"name" validate:"omitempty,min=3,alpha_space"`
	Email    *string `json:"email" form:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" form:"phone" validate:"omitempty,numeric,min=10,max=15"`
	Password *string `json:"password" form:"password" validate:"omitempty,min=6,has_digit"`
	Address  *string `json:"address" form:"address" validate:"omitempty,max=150"`
	State    *string `json:"state" form:"state"`
	City     *string `json:"city" form:"city"`
	Country  *string `json:"country" form:"country"`
	Pincode  *string `json:"pincode" form:"pincode" validate:"omitempty,numeric,min=4,max=10"`
	Role     *string `json:"role" form:"role" validate:"omitempty,oneof=user admin"`
}

func NewUserService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	hasher *hash.Hasher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		hasher:      hasher,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns a page of users. Admin only.
func (s *UserService) List(ctx context.Context, requester *domain.Claims, req ListRequest) (*ListResponse, error) {
	if requester == nil || requester.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	sortColumn, desc := parseSort(req.Sort)
	filter := repository.UserFilter{
		Query: req.Query,
		Name:  req.Name,
		Email: req.Email,
		State: req.State,
		City:  req.City,
	}

	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx, filter, sortColumn, desc, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*domain.User{}
	}

	pages := (total + limit - 1) / limit

	return &ListResponse{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
		Data:  users,
	}, nil
}

// Get returns one user. Admin or the user themselves.
func (s *UserService) Get(ctx context.Context, requester *domain.Claims, id uuid.UUID) (*domain.User, error) {
	if err := authorize(requester, id); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(ctx, id)
}

// Update applies a partial profile update. Admin or the user themselves; role
// changes are admin only, and an email change re-checks uniqueness.
func (s *UserService) Update(ctx context.Context, requester *domain.Claims, id uuid.UUID, req UpdateRequest, imageRef string) (*domain.User, error) {
	if err := authorize(requester, id); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			taken, err := s.userRepo.EmailTaken(ctx, email, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.ErrEmailTaken
			}
			user.Email = email
		}
	}

	if req.Password != nil {
		passwordHash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = passwordHash
	}

	if req.Role != nil && domain.Role(*req.Role) != user.Role {
		if requester.Role != domain.RoleAdmin {
			return nil, domain.ErrForbidden
		}
		user.Role = domain.Role(*req.Role)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.State != nil {
		user.State = *req.State
	}
	if req.City != nil {
		user.City = *req.City
	}
	if req.Country != nil {
		user.Country = *req.Country
	}
	if req.Pincode != nil {
		user.Pincode = *req.Pincode
	}
	if imageRef != "" {
		user.ProfileImage = imageRef
	}

	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user updated",
		zap.String("user_id", user.ID.String()),
		zap.String("updated_by", requester.UserID.String()),
	)

	return user, nil
}

// Delete removes a user and their whole session family. Admin only.
func (s *UserService) Delete(ctx context.Context, requester *domain.Claims, id uuid.UUID) error {
	if requester == nil || requester.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if err := s.sessionRepo.Clear(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted",
		zap.String("user_id", id.String()),
		zap.String("deleted_by", requester.UserID.String()),
	)

	return nil
}

// parseSort maps "-created_at" style sort keys to a column and direction.
// Unknown keys fall back to newest-first; the repository enforces the column
// whitelist as well.
func parseSort(sort string) (string, bool) {
	if sort == "" {
		return "created_at", true
	}

	desc := false
	if strings.HasPrefix(sort, "-") {
		desc = true
		sort = sort[1:]
	}

	switch sort {
	case "created_at", "updated_at", "name", "email":
		return sort, desc
	default:
		return "created_at", true
	}
}
