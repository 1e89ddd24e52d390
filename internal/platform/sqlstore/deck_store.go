package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/platform/database"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/phrazzld/recode/internal/store"
)

var deckColumns = []string{"id", "owner_id", "name", "description", "created_at", "updated_at"}

// DeckStore implements store.DeckStore on a SQL database.
type DeckStore struct {
	db     store.DBTX
	sb     sq.StatementBuilderType
	logger *slog.Logger
}

// NewDeckStore creates a DeckStore. If logger is nil, a default logger is used.
func NewDeckStore(db store.DBTX, dialect database.Dialect, logger *slog.Logger) *DeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DeckStore{
		db:     db,
		sb:     dialect.Builder(),
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

var _ store.DeckStore = (*DeckStore)(nil)

// WithTx implements store.DeckStore.WithTx
func (s *DeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &DeckStore{db: tx, sb: s.sb, logger: s.logger}
}

// Create implements store.DeckStore.Create
// Returns store.ErrInvalidEntity if the owner does not exist.
func (s *DeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		return err
	}

	query, args, err := s.sb.Insert("decks").
		Columns(deckColumns...).
		Values(deck.ID, deck.OwnerID, deck.Name, deck.Description,
			deck.CreatedAt.UTC(), deck.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deck insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("deck owner does not exist",
				slog.String("deck_id", deck.ID.String()),
				slog.String("owner_id", deck.OwnerID.String()))
			return fmt.Errorf("%w: owner %s not found", store.ErrInvalidEntity, deck.OwnerID)
		}
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return MapError(err)
	}

	log.Debug("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("owner_id", deck.OwnerID.String()))
	return nil
}

// Get implements store.DeckStore.Get
func (s *DeckStore) Get(ctx context.Context, ownerID, deckID uuid.UUID) (*domain.Deck, error) {
	query, args, err := s.sb.Select(deckColumns...).
		From("decks").
		Where(sq.Eq{"id": deckID, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build deck query: %w", err)
	}

	deck, err := scanDeck(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, MapError(err)
	}
	return deck, nil
}

// ListByOwner implements store.DeckStore.ListByOwner
func (s *DeckStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Deck, error) {
	query, args, err := s.sb.Select(deckColumns...).
		From("decks").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build deck list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	decks := []*domain.Deck{}
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, MapError(err)
		}
		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return decks, nil
}

// Update implements store.DeckStore.Update
func (s *DeckStore) Update(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return err
	}

	query, args, err := s.sb.Update("decks").
		Set("name", deck.Name).
		Set("description", deck.Description).
		Set("updated_at", deck.UpdatedAt.UTC()).
		Where(sq.Eq{"id": deck.ID, "owner_id": deck.OwnerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deck update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deck.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrDeckNotFound)
}

// Delete implements store.DeckStore.Delete
func (s *DeckStore) Delete(ctx context.Context, ownerID, deckID uuid.UUID) error {
	query, args, err := s.sb.Delete("decks").
		Where(sq.Eq{"id": deckID, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deck delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrDeckNotFound)
}

// DeleteAllForOwner implements store.DeckStore.DeleteAllForOwner
func (s *DeckStore) DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	query, args, err := s.sb.Delete("decks").Where(sq.Eq{"owner_id": ownerID}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build deck delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, MapError(err)
	}
	return result.RowsAffected()
}

func scanDeck(row rowScanner) (*domain.Deck, error) {
	var deck domain.Deck
	if err := row.Scan(
		&deck.ID, &deck.OwnerID, &deck.Name, &deck.Description,
		&deck.CreatedAt, &deck.UpdatedAt,
	); err != nil {
		return nil, err
	}
	deck.CreatedAt = deck.CreatedAt.UTC()
	deck.UpdatedAt = deck.UpdatedAt.UTC()
	return &deck, nil
}
