package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/phrazzld/recode/internal/store"
)

// CardService provides card operations. Every method is scoped to an owner.
type CardService interface {
	// CreateCard adds a card with a fresh schedule to one of the owner's
	// decks and increments the owner's total and learning counters.
	// Returns store.ErrDeckNotFound if the deck is not the owner's.
	CreateCard(ctx context.Context, ownerID, deckID uuid.UUID, content domain.CardContent) (*domain.Card, error)

	// ListCards returns the owner's cards, optionally limited to one deck.
	ListCards(ctx context.Context, ownerID uuid.UUID, deckID *uuid.UUID) ([]*domain.Card, error)

	// GetCard returns one of the owner's cards or store.ErrCardNotFound.
	GetCard(ctx context.Context, ownerID, cardID uuid.UUID) (*domain.Card, error)

	// GetDueCards returns the owner's cards whose due date is not after now.
	GetDueCards(ctx context.Context, ownerID uuid.UUID) ([]*domain.Card, error)

	// UpdateCard edits question and answer. The schedule is not touched.
	UpdateCard(ctx context.Context, ownerID, cardID uuid.UUID, patch domain.CardPatch) (*domain.Card, error)

	// DeleteCard removes the card and decrements the owner's total and
	// learning counters, floored at zero.
	DeleteCard(ctx context.Context, ownerID, cardID uuid.UUID) error
}

type cardServiceImpl struct {
	runner *Runner
	logger *slog.Logger
}

var _ CardService = (*cardServiceImpl)(nil)

// NewCardService creates a new CardService.
// It returns an error if any of the required dependencies are nil.
func NewCardService(runner *Runner, logger *slog.Logger) (CardService, error) {
	if runner == nil {
		return nil, domain.NewValidationError("runner", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		runner: runner,
		logger: logger.With(slog.String("component", "card_service")),
	}, nil
}

// CreateCard implements CardService.CreateCard
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	ownerID, deckID uuid.UUID,
	content domain.CardContent,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var card *domain.Card
	err := s.runner.InOwnerTx(ctx, ownerID, func(ctx context.Context, tx OwnerTx) error {
		if _, err := tx.Decks.Get(ctx, ownerID, deckID); err != nil {
			return err
		}

		now := s.runner.Now()
		var err error
		if card, err = domain.NewCard(ownerID, deckID, content, now); err != nil {
			return err
		}
		if err := tx.Cards.Create(ctx, card); err != nil {
			return err
		}
		return tx.SaveStats(ctx, tx.Owner.Stats.CardAdded(), now)
	})
	if err != nil {
		return nil, failWith(log, "create_card", "failed to create card", err)
	}

	log.Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", deckID.String()))
	return card, nil
}

// ListCards implements CardService.ListCards
func (s *cardServiceImpl) ListCards(
	ctx context.Context,
	ownerID uuid.UUID,
	deckID *uuid.UUID,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	stores := s.runner.Stores()
	if deckID != nil {
		if _, err := stores.Decks.Get(ctx, ownerID, *deckID); err != nil {
			return nil, failWith(log, "list_cards", "failed to get deck", err)
		}
	}

	cards, err := stores.Cards.List(ctx, store.CardFilter{OwnerID: ownerID, DeckID: deckID})
	if err != nil {
		return nil, failWith(log, "list_cards", "failed to list cards", err)
	}
	return cards, nil
}

// GetCard implements CardService.GetCard
func (s *cardServiceImpl) GetCard(ctx context.Context, ownerID, cardID uuid.UUID) (*domain.Card, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	card, err := s.runner.Stores().Cards.Get(ctx, ownerID, cardID)
	if err != nil {
		return nil, failWith(logger.FromContextOrDefault(ctx, s.logger), "get_card", "failed to get card", err)
	}
	return card, nil
}

// GetDueCards implements CardService.GetDueCards
func (s *cardServiceImpl) GetDueCards(ctx context.Context, ownerID uuid.UUID) ([]*domain.Card, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	now := s.runner.Now()
	cards, err := s.runner.Stores().Cards.List(ctx, store.CardFilter{OwnerID: ownerID, DueAt: &now})
	if err != nil {
		return nil, failWith(logger.FromContextOrDefault(ctx, s.logger), "get_due_cards", "failed to list due cards", err)
	}
	return cards, nil
}

// UpdateCard implements CardService.UpdateCard
func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	ownerID, cardID uuid.UUID,
	patch domain.CardPatch,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var card *domain.Card
	err := s.runner.InOwnerTx(ctx, ownerID, func(ctx context.Context, tx OwnerTx) error {
		var err error
		if card, err = tx.Cards.Get(ctx, ownerID, cardID); err != nil {
			return err
		}
		if err := card.Apply(patch, s.runner.Now()); err != nil {
			return err
		}
		return tx.Cards.UpdateContent(ctx, card)
	})
	if err != nil {
		return nil, failWith(log, "update_card", "failed to update card", err)
	}

	log.Debug("card updated", slog.String("card_id", cardID.String()))
	return card, nil
}

// DeleteCard implements CardService.DeleteCard
func (s *cardServiceImpl) DeleteCard(ctx context.Context, ownerID, cardID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.runner.InOwnerTx(ctx, ownerID, func(ctx context.Context, tx OwnerTx) error {
		if err := tx.Cards.Delete(ctx, ownerID, cardID); err != nil {
			return err
		}
		return tx.SaveStats(ctx, tx.Owner.Stats.CardRemoved(), s.runner.Now())
	})
	if err != nil {
		return failWith(log, "delete_card", "failed to delete card", err)
	}

	log.Info("card deleted", slog.String("card_id", cardID.String()))
	return nil
}
