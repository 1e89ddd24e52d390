package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and checks the bearer tokens that scope API requests to
// one user.
type JWTService interface {
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken fails with ErrMissingToken, ErrExpiredToken,
	// ErrTokenNotYetValid or ErrInvalidToken. Any other error is internal.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is what a valid token asserts.
type Claims struct {
	UserID    uuid.UUID
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
