package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing. The Fn fields take
// precedence; otherwise Token/Err and Claims/ValidateErr are returned.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	Token       string
	Err         error
	Claims      *auth.Claims
	ValidateErr error

	// Issued records the user ids tokens were generated for.
	Issued []uuid.UUID
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements auth.JWTService
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	m.Issued = append(m.Issued, userID)
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return m.Token, m.Err
}

// ValidateToken implements auth.JWTService
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}
