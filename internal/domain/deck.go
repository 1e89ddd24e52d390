package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Deck validation errors
var (
	ErrEmptyDeckID      = fmt.Errorf("%w: deck ID cannot be empty", ErrValidation)
	ErrEmptyDeckOwnerID = fmt.Errorf("%w: deck owner ID cannot be empty", ErrValidation)
	ErrEmptyDeckName    = fmt.Errorf("%w: deck name cannot be empty", ErrValidation)
	ErrDeckNameTooLong  = fmt.Errorf("%w: deck name is too long", ErrValidation)
)

const maxDeckNameLength = 200

// Deck is a named collection of cards belonging to one owner.
type Deck struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewDeck creates a deck owned by ownerID.
func NewDeck(ownerID uuid.UUID, name, description string, now time.Time) (*Deck, error) {
	now = now.UTC()
	deck := &Deck{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}
	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrEmptyDeckID
	}
	if d.OwnerID == uuid.Nil {
		return ErrEmptyDeckOwnerID
	}
	if d.Name == "" {
		return ErrEmptyDeckName
	}
	if len(d.Name) > maxDeckNameLength {
		return ErrDeckNameTooLong
	}
	return nil
}

// DeckPatch is a partial update of a deck; nil fields are left as is.
type DeckPatch struct {
	Name        *string
	Description *string
}

// Apply merges the patch into the deck. The deck is left unchanged when the
// result is invalid.
func (d *Deck) Apply(p DeckPatch, now time.Time) error {
	next := *d
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		next.Description = strings.TrimSpace(*p.Description)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = now.UTC()
	*d = next
	return nil
}
