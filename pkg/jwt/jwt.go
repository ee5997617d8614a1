// Package jwt implements the token codec: signed, time-limited access and
// refresh tokens carrying the subject identity and role. Verification is
// stateless; session tracking lives elsewhere.
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/suhanachaudhary/harleen-design-backend/internal/domain"
)

var (
	ErrInvalidSigningMethod = errors.New("unexpected signing method")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
)

// TokenService signs and verifies token pairs. Access and refresh tokens use
// distinct secrets so that compromise of one key cannot forge the other token
// type. The clock is injectable for deterministic tests.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	issuer        string
	now           func() time.Time
}

func NewTokenService(accessSecret, refreshSecret []byte, accessExpiry, refreshExpiry time.Duration, issuer string) (*TokenService, error) {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 {
		return nil, errors.New("jwt: empty signing secret")
	}

	return &TokenService{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		issuer:        issuer,
		now:           time.Now,
	}, nil
}

// WithClock overrides the time source. Used by tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// GenerateTokenPair issues an access/refresh pair for the user. Each token
// carries its own JTI, so no two issued tokens are ever equal by value.
func (s *TokenService) GenerateTokenPair(userID uuid.UUID, role domain.Role) (*domain.TokenPair, error) {
	now := s.now()
	accessExp := now.Add(s.accessExpiry)

	accessClaims := domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(accessExp),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		UserID:    userID,
		Role:      role,
		TokenType: domain.TokenTypeAccess,
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(s.accessSecret)
	if err != nil {
		return nil, err
	}

	refreshClaims := domain.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		UserID:    userID,
		Role:      role,
		TokenType: domain.TokenTypeRefresh,
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    accessExp,
		TokenType:    "Bearer",
	}, nil
}

// ValidateAccessToken verifies signature and expiry against the access secret.
func (s *TokenService) ValidateAccessToken(tokenString string) (*domain.Claims, error) {
	return s.validate(tokenString, s.accessSecret, domain.TokenTypeAccess)
}

// ValidateRefreshToken verifies signature and expiry against the refresh secret.
func (s *TokenService) ValidateRefreshToken(tokenString string) (*domain.Claims, error) {
	return s.validate(tokenString, s.refreshSecret, domain.TokenTypeRefresh)
}

func (s *TokenService) validate(tokenString string, secret []byte, wantType string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSigningMethod
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// A refresh token must never pass as an access token, and vice versa.
	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// RefreshExpiry returns the configured refresh-token lifetime. The session
// store uses it to stamp expires_at on stored tokens.
func (s *TokenService) RefreshExpiry() time.Duration {
	return s.refreshExpiry
}
