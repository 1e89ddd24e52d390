package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT used for API authorization.
	AccessToken string `json:"token"`

	// ExpiresAt is the RFC 3339 timestamp when the access token expires.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// UpdateMeRequest is a partial update of the authenticated user.
type UpdateMeRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1,max=100"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// DeckRequest is the payload for creating a deck.
type DeckRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// UpdateDeckRequest is a partial update of a deck.
type UpdateDeckRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// CardRequest is the payload for creating a card.
type CardRequest struct {
	Question string   `json:"question" validate:"required"`
	Answer   string   `json:"answer"   validate:"required"`
	Type     string   `json:"type"     validate:"max=32"`
	Tags     []string `json:"tags"     validate:"max=20,dive,max=50"`
}

// UpdateCardRequest changes the content of a card.
type UpdateCardRequest struct {
	Question *string `json:"question" validate:"omitempty,min=1"`
	Answer   *string `json:"answer"   validate:"omitempty,min=1"`
}

// ReviewRequest grades a card. Quality is a pointer so that 0 is accepted
// while a missing value is not.
type ReviewRequest struct {
	Quality *int `json:"quality" validate:"required,min=0,max=5"`
}

// UserResponse is the public representation of a user.
type UserResponse struct {
	ID        uuid.UUID        `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Stats     domain.UserStats `json:"stats"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Stats:     u.Stats,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
