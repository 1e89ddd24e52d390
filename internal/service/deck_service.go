package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/platform/logger"
)

// DeckService provides deck operations. Every method is scoped to an owner.
type DeckService interface {
	// CreateDeck creates an empty deck.
	CreateDeck(ctx context.Context, ownerID uuid.UUID, name, description string) (*domain.Deck, error)

	// ListDecks returns the owner's decks in creation order.
	ListDecks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Deck, error)

	// GetDeck returns one of the owner's decks or store.ErrDeckNotFound.
	GetDeck(ctx context.Context, ownerID, deckID uuid.UUID) (*domain.Deck, error)

	// UpdateDeck applies a partial update of name and description.
	UpdateDeck(ctx context.Context, ownerID, deckID uuid.UUID, patch domain.DeckPatch) (*domain.Deck, error)

	// DeleteDeck removes the deck and all of its cards in one transaction,
	// decrementing the owner's counters once per removed card.
	DeleteDeck(ctx context.Context, ownerID, deckID uuid.UUID) error
}

type deckServiceImpl struct {
	runner *Runner
	logger *slog.Logger
}

var _ DeckService = (*deckServiceImpl)(nil)

// NewDeckService creates a new DeckService.
func NewDeckService(runner *Runner, logger *slog.Logger) (DeckService, error) {
	if runner == nil {
		return nil, domain.NewValidationError("runner", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		runner: runner,
		logger: logger.With(slog.String("component", "deck_service")),
	}, nil
}

// CreateDeck implements DeckService.CreateDeck
func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	ownerID uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var deck *domain.Deck
	err := s.runner.InOwnerTx(ctx, ownerID, func(ctx context.Context, tx OwnerTx) error {
		var err error
		deck, err = domain.NewDeck(ownerID, name, description, s.runner.Now())
		if err != nil {
			return err
		}
		return tx.Decks.Create(ctx, deck)
	})
	if err != nil {
		return nil, failWith(log, "create_deck", "failed to create deck", err)
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("owner_id", ownerID.String()))
	return deck, nil
}

// ListDecks implements DeckService.ListDecks
func (s *deckServiceImpl) ListDecks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Deck, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	decks, err := s.runner.Stores().Decks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, failWith(logger.FromContextOrDefault(ctx, s.logger), "list_decks", "failed to list decks", err)
	}
	return decks, nil
}

// GetDeck implements DeckService.GetDeck
func (s *deckServiceImpl) GetDeck(ctx context.Context, ownerID, deckID uuid.UUID) (*domain.Deck, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	deck, err := s.runner.Stores().Decks.Get(ctx, ownerID, deckID)
	if err != nil {
		return nil, failWith(logger.FromContextOrDefault(ctx, s.logger), "get_deck", "failed to get deck", err)
	}
	return deck, nil
}

// UpdateDeck implements DeckService.UpdateDeck
func (s *deckServiceImpl) UpdateDeck(
	ctx context.Context,
	ownerID, deckID uuid.UUID,
	patch domain.DeckPatch,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var deck *domain.Deck
	err := s.runner.InOwnerTx(ctx, ownerID, func(ctx context.Context, tx OwnerTx) error {
		var err error
		if deck, err = tx.Decks.Get(ctx, ownerID, deckID); err != nil {
			return err
		}
		if err := deck.Apply(patch, s.runner.Now()); err != nil {
			return err
		}
		return tx.Decks.Update(ctx, deck)
	})
	if err != nil {
		return nil, failWith(log, "update_deck", "failed to update deck", err)
	}

	log.Debug("deck updated", slog.String("deck_id", deckID.String()))
	return deck, nil
}

// DeleteDeck implements DeckService.DeleteDeck
func (s *deckServiceImpl) DeleteDeck(ctx context.Context, ownerID, deckID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var removed int64
	err := s.runner.InOwnerTx(ctx, ownerID, func(ctx context.Context, tx OwnerTx) error {
		if _, err := tx.Decks.Get(ctx, ownerID, deckID); err != nil {
			return err
		}

		var err error
		if removed, err = tx.Cards.DeleteByDeck(ctx, ownerID, deckID); err != nil {
			return err
		}
		if err := tx.Decks.Delete(ctx, ownerID, deckID); err != nil {
			return err
		}

		stats := tx.Owner.Stats
		for i := int64(0); i < removed; i++ {
			stats = stats.CardRemoved()
		}
		return tx.SaveStats(ctx, stats, s.runner.Now())
	})
	if err != nil {
		return failWith(log, "delete_deck", "failed to delete deck", err)
	}

	log.Info("deck deleted",
		slog.String("deck_id", deckID.String()),
		slog.Int64("cards_removed", removed))
	return nil
}
