package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suhanachaudhary/harleen-design-backend/internal/domain"
	"github.com/suhanachaudhary/harleen-design-backend/internal/repository"
	"github.com/suhanachaudhary/harleen-design-backend/pkg/hash"
	"github.com/suhanachaudhary/harleen-design-backend/pkg/jwt"
	"github.com/suhanachaudhary/harleen-design-backend/pkg/limiter"
)

// AuthService orchestrates login, registration, refresh-token rotation with
// reuse detection, and logout. Refresh tokens form a per-user family in the
// session repository; access tokens are stateless and never tracked.
type AuthService struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	tokenService *jwt.TokenService
	hasher       *hash.Hasher
	limiter      limiter.Limiter
	logger       *zap.Logger
	now          func() time.Time
}

type RegisterRequest struct {
	Name     string `json:"name" form:"name" validate:"required,min=3,alpha_space"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Phone    string `json:"phone" form:"phone" validate:"required,numeric,min=10,max=15"`
	Password string `json:"password" form:"password" validate:"required,min=6,has_digit"`
	Address  string `json:"address" form:"address" validate:"omitempty,max=150"`
	State    string `json:"state" form:"state" validate:"required"`
	City     string `json:"city" form:"city" validate:"required"`
	Country  string `json:"country" form:"country" validate:"required"`
	Pincode  string `json:"pincode" form:"pincode" validate:"omitempty,numeric,min=4,max=10"`
	Role     string `json:"role" form:"role" validate:"omitempty,oneof=user admin"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" form:"identifier" validate:"required"`
	Password   string `json:"password" form:"password" validate:"required"`
}

type AuthResponse struct {
	User   *domain.User      `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	tokenService *jwt.TokenService,
	hasher *hash.Hasher,
	lim limiter.Limiter,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		tokenService: tokenService,
		hasher:       hasher,
		limiter:      lim,
		logger:       logger,
		now:          time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Register creates a user and immediately opens an authenticated session: a
// fresh registration returns a token pair just like Login.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest, imageRef string) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := domain.RoleUser
	if req.Role == string(domain.RoleAdmin) {
		role = domain.RoleAdmin
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: passwordHash,
		ProfileImage: imageRef,
		Address:      req.Address,
		State:        req.State,
		City:         req.City,
		Country:      req.Country,
		Pincode:      req.Pincode,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

// Login authenticates by email or phone. An unknown identifier and a wrong
// password both return the same ErrInvalidCredentials, so responses carry no
// account-enumeration signal.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, clientIP string) (*AuthResponse, error) {
	allowed, err := s.limiter.Allow(ctx, req.Identifier, clientIP)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}
	if !allowed {
		return nil, domain.ErrRateLimited
	}

	user, err := s.userRepo.GetByEmailOrPhone(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			if lerr := s.limiter.Failure(ctx, req.Identifier, clientIP); lerr != nil {
				s.logger.Warn("failed to record login failure", zap.Error(lerr))
			}
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	match, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		// Corrupt stored hash: a storage-integrity fault, not a client error.
		s.logger.Error("corrupt password hash",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to verify credentials: %w", err)
	}
	if !match {
		if lerr := s.limiter.Failure(ctx, req.Identifier, clientIP); lerr != nil {
			s.logger.Warn("failed to record login failure", zap.Error(lerr))
		}
		return nil, domain.ErrInvalidCredentials
	}

	if lerr := s.limiter.Success(ctx, req.Identifier, clientIP); lerr != nil {
		s.logger.Warn("failed to reset login counter", zap.Error(lerr))
	}

	tokens, err := s.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID.String()))

	return &AuthResponse{User: user, Tokens: tokens}, nil
}

// Refresh exchanges a tracked refresh token for a fresh pair. The old token is
// consumed and the new one stored as a single rotation. A validly-signed token
// that is no longer on record is treated as evidence of theft or replay: the
// whole family is revoked and the caller must fully re-authenticate.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		// Expired or forged tokens never reach the reuse branch.
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	tokens, err := s.tokenService.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token pair: %w", err)
	}

	expiresAt := s.now().Add(s.tokenService.RefreshExpiry())
	err = s.sessionRepo.Rotate(ctx, user.ID, refreshToken, tokens.RefreshToken, expiresAt)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Reuse detected: nuke every device's session for this user.
			if cerr := s.sessionRepo.Clear(ctx, user.ID); cerr != nil {
				return nil, fmt.Errorf("failed to revoke token family: %w", cerr)
			}
			s.logger.Warn("refresh token reuse detected, token family revoked",
				zap.String("user_id", user.ID.String()),
			)
			return nil, domain.ErrReuseDetected
		}
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}

	return tokens, nil
}

// Logout removes the presented refresh token from its family. It is
// best-effort and idempotent: a malformed, expired or already-removed token
// still reports success.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokenService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}

	if err := s.sessionRepo.Remove(ctx, claims.UserID, refreshToken); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("failed to remove session token on logout",
			zap.String("user_id", claims.UserID.String()),
			zap.Error(err),
		)
	}

	return nil
}

// Authorize is the ownership gate consumed by the transport layer: a request
// against targetID is permitted for admins and for the target themselves.
func (s *AuthService) Authorize(claims *domain.Claims, targetID uuid.UUID) error {
	return authorize(claims, targetID)
}

func authorize(claims *domain.Claims, targetID uuid.UUID) error {
	if claims == nil {
		return domain.ErrForbidden
	}
	if claims.Role == domain.RoleAdmin || claims.UserID == targetID {
		return nil
	}
	return domain.ErrForbidden
}

// openSession issues a token pair and adds the refresh token to the family.
func (s *AuthService) openSession(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	tokens, err := s.tokenService.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token pair: %w", err)
	}

	expiresAt := s.now().Add(s.tokenService.RefreshExpiry())
	if err := s.sessionRepo.Add(ctx, user.ID, tokens.RefreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return tokens, nil
}
