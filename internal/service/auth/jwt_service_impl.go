package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/config"
	"github.com/phrazzld/recode/internal/platform/logger"
)

const (
	accessTokenType = "access"
	minSecretLength = 32
	clockLeeway     = 2 * time.Minute
)

type accessClaims struct {
	UserID    uuid.UUID `json:"uid"`
	TokenType string    `json:"type"`
	jwt.RegisteredClaims
}

// signer signs HS256 access tokens with a shared secret.
type signer struct {
	key      []byte
	lifetime time.Duration
	now      func() time.Time
}

var _ JWTService = (*signer)(nil)

// NewJWTService builds the HS256 token service from cfg.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	return newSigner(cfg.JWTSecret, cfg.TokenLifetime(), time.Now)
}

// NewJWTServiceWithClock is NewJWTService with an explicit clock.
func NewJWTServiceWithClock(cfg config.AuthConfig, now func() time.Time) (JWTService, error) {
	return newSigner(cfg.JWTSecret, cfg.TokenLifetime(), now)
}

func newSigner(secret string, lifetime time.Duration, now func() time.Time) (*signer, error) {
	switch {
	case len(secret) < minSecretLength:
		return nil, fmt.Errorf("jwt secret must be at least %d characters", minSecretLength)
	case lifetime <= 0:
		return nil, errors.New("token lifetime must be positive")
	}
	if now == nil {
		now = time.Now
	}
	return &signer{key: []byte(secret), lifetime: lifetime, now: now}, nil
}

func (s *signer) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	issued := s.now()
	claims := accessClaims{
		UserID:    userID,
		TokenType: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.lifetime)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign access token",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (s *signer) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	now := s.now()
	var claims accessClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (interface{}, error) { return s.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(clockLeeway),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		mapped := classifyParseError(err)
		logger.FromContext(ctx).Debug("token rejected",
			slog.String("reason", mapped.Error()),
			slog.String("error", err.Error()))
		return nil, mapped
	}
	if !token.Valid || claims.TokenType != accessTokenType || claims.UserID == uuid.Nil {
		logger.FromContext(ctx).Debug("token rejected", slog.String("reason", "unexpected claims"))
		return nil, ErrInvalidToken
	}

	return &Claims{
		UserID:    claims.UserID,
		Subject:   claims.Subject,
		IssuedAt:  numericTime(claims.IssuedAt),
		ExpiresAt: numericTime(claims.ExpiresAt),
		ID:        claims.ID,
	}, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenNotYetValid
	default:
		return ErrInvalidToken
	}
}

func numericTime(d *jwt.NumericDate) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}
