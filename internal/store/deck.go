package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
)

// DeckStore defines the interface for deck persistence. Every method is
// scoped to an owner; a deck belonging to someone else behaves exactly like a
// deck that does not exist.
type DeckStore interface {
	// Create saves a new deck.
	Create(ctx context.Context, deck *domain.Deck) error

	// Get retrieves one of the owner's decks.
	// Returns ErrDeckNotFound if it does not exist or is not owned by ownerID.
	Get(ctx context.Context, ownerID, deckID uuid.UUID) (*domain.Deck, error)

	// ListByOwner returns the owner's decks in creation order.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Deck, error)

	// Update writes the deck's name, description and updatedAt.
	// Returns ErrDeckNotFound if no deck matched both id and owner.
	Update(ctx context.Context, deck *domain.Deck) error

	// Delete removes one of the owner's decks. Cards must be removed first.
	// Returns ErrDeckNotFound if no deck matched both id and owner.
	Delete(ctx context.Context, ownerID, deckID uuid.UUID) error

	// DeleteAllForOwner removes every deck of the owner and reports how many
	// were deleted.
	DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// WithTx returns a new DeckStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) DeckStore
}
