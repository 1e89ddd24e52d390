package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/phrazzld/recode/internal/store"
)

// ImportResult summarizes a completed import.
type ImportResult struct {
	Decks int          `json:"decks"`
	Cards int          `json:"cards"`
	User  *domain.User `json:"user"`
}

// TransferService exports and imports an owner's whole record set.
type TransferService interface {
	// Export returns a consistent snapshot of the owner's user, decks and
	// cards.
	Export(ctx context.Context, ownerID uuid.UUID) (*domain.Snapshot, error)

	// Import replaces the owner's decks and cards with the document's and
	// applies its user section. Nothing is written unless the whole document
	// is valid.
	Import(ctx context.Context, ownerID uuid.UUID, doc *domain.ImportDocument) (*ImportResult, error)
}

type transferServiceImpl struct {
	runner *Runner
	logger *slog.Logger
}

var _ TransferService = (*transferServiceImpl)(nil)

// NewTransferService creates a new TransferService.
func NewTransferService(runner *Runner, logger *slog.Logger) (TransferService, error) {
	if runner == nil {
		return nil, domain.NewValidationError("runner", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &transferServiceImpl{
		runner: runner,
		logger: logger.With(slog.String("component", "transfer_service")),
	}, nil
}

// Export implements TransferService.Export
func (s *transferServiceImpl) Export(ctx context.Context, ownerID uuid.UUID) (*domain.Snapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	var snap domain.Snapshot
	err := s.runner.InTx(ctx, func(ctx context.Context, tx Stores) error {
		var err error
		if snap.User, err = tx.Users.GetByID(ctx, ownerID); err != nil {
			return err
		}
		if snap.Decks, err = tx.Decks.ListByOwner(ctx, ownerID); err != nil {
			return err
		}
		snap.Cards, err = tx.Cards.List(ctx, store.CardFilter{OwnerID: ownerID})
		return err
	})
	if err != nil {
		return nil, failWith(log, "export", "failed to export records", err)
	}

	log.Debug("records exported",
		slog.Int("decks", len(snap.Decks)),
		slog.Int("cards", len(snap.Cards)))
	return &snap, nil
}

// Import implements TransferService.Import
func (s *transferServiceImpl) Import(
	ctx context.Context,
	ownerID uuid.UUID,
	doc *domain.ImportDocument,
) (*ImportResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrInvalidSnapshot
	}

	plan, err := doc.Plan(ownerID, s.runner.Now())
	if err != nil {
		log.Debug("import document rejected", slog.String("error", err.Error()))
		return nil, err
	}

	result := &ImportResult{Decks: len(plan.Decks), Cards: len(plan.Cards)}
	err = s.runner.InOwnerTx(ctx, ownerID, func(ctx context.Context, tx OwnerTx) error {
		if _, err := tx.Cards.DeleteAllForOwner(ctx, ownerID); err != nil {
			return err
		}
		if _, err := tx.Decks.DeleteAllForOwner(ctx, ownerID); err != nil {
			return err
		}
		for _, deck := range plan.Decks {
			if err := tx.Decks.Create(ctx, deck); err != nil {
				return err
			}
		}
		for _, card := range plan.Cards {
			if err := tx.Cards.Create(ctx, card); err != nil {
				return err
			}
		}
		if err := applyUserPatch(ctx, tx, plan.User, s.runner); err != nil {
			return err
		}
		result.User = tx.Owner
		return nil
	})
	if err != nil {
		return nil, failWith(log, "import", "failed to import records", err)
	}

	log.Info("records imported",
		slog.String("owner_id", ownerID.String()),
		slog.Int("decks", result.Decks),
		slog.Int("cards", result.Cards))
	return result, nil
}
