package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
)

// CardFilter narrows a card listing. OwnerID is mandatory.
type CardFilter struct {
	OwnerID uuid.UUID
	// DeckID limits the listing to one deck when set.
	DeckID *uuid.UUID
	// DueAt limits the listing to cards whose due date is at or before it.
	DueAt *time.Time
}

// CardCounts are the totals derived from the cards themselves, used to check
// the incrementally maintained counters.
type CardCounts struct {
	Total int
	// Mastered counts cards whose interval is at or above the mastery
	// threshold passed to CountByOwner.
	Mastered int
}

// CardStore defines the interface for card persistence. Every method is
// scoped to an owner.
type CardStore interface {
	// Create saves a new card. The deck must exist and belong to the same
	// owner; otherwise ErrDeckNotFound is returned.
	Create(ctx context.Context, card *domain.Card) error

	// Get retrieves one of the owner's cards.
	// Returns ErrCardNotFound if it does not exist or is not owned by ownerID.
	Get(ctx context.Context, ownerID, cardID uuid.UUID) (*domain.Card, error)

	// List returns the cards matching filter in creation order.
	List(ctx context.Context, filter CardFilter) ([]*domain.Card, error)

	// UpdateContent writes question, answer and updatedAt only.
	// Returns ErrCardNotFound if no card matched both id and owner.
	UpdateContent(ctx context.Context, card *domain.Card) error

	// UpdateSchedule writes the card's repetition schedule and updatedAt only.
	// Returns ErrCardNotFound if no card matched both id and owner.
	UpdateSchedule(ctx context.Context, card *domain.Card) error

	// Delete removes one of the owner's cards.
	// Returns ErrCardNotFound if no card matched both id and owner.
	Delete(ctx context.Context, ownerID, cardID uuid.UUID) error

	// DeleteByDeck removes all cards of one of the owner's decks and reports
	// how many were deleted.
	DeleteByDeck(ctx context.Context, ownerID, deckID uuid.UUID) (int64, error)

	// DeleteAllForOwner removes every card of the owner and reports how many
	// were deleted.
	DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// CountByOwner derives card totals for the owner.
	CountByOwner(ctx context.Context, ownerID uuid.UUID, masteryIntervalDays int) (CardCounts, error)

	// WithTx returns a new CardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CardStore
}
