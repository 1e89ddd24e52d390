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

var cardColumns = []string{
	"id", "deck_id", "owner_id", "question", "answer", "card_type", "tags",
	"repetitions", "interval_days", "ease_factor", "due_date", "last_review",
	"created_at", "updated_at",
}

// CardStore implements store.CardStore on a SQL database.
type CardStore struct {
	db     store.DBTX
	sb     sq.StatementBuilderType
	logger *slog.Logger
}

// NewCardStore creates a CardStore. If logger is nil, a default logger is used.
func NewCardStore(db store.DBTX, dialect database.Dialect, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardStore{
		db:     db,
		sb:     dialect.Builder(),
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*CardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx, sb: s.sb, logger: s.logger}
}

// Create implements store.CardStore.Create
// The composite foreign key on (deck_id, owner_id) rejects a deck owned by
// someone else the same way as a missing one.
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	tags, err := encodeTags(card.Tags)
	if err != nil {
		return err
	}

	query, args, err := s.sb.Insert("cards").
		Columns(cardColumns...).
		Values(
			card.ID, card.DeckID, card.OwnerID, card.Question, card.Answer, card.Type, tags,
			card.Stats.Repetitions, card.Stats.Interval, card.Stats.EaseFactor,
			card.Stats.DueDate.UTC(), nullTime(card.Stats.LastReview),
			card.CreatedAt.UTC(), card.UpdatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if IsForeignKeyViolation(err) {
			log.Debug("card references a deck the owner does not have",
				slog.String("card_id", card.ID.String()),
				slog.String("deck_id", card.DeckID.String()))
			return store.ErrDeckNotFound
		}
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("deck_id", card.DeckID.String()))
	return nil
}

// Get implements store.CardStore.Get
func (s *CardStore) Get(ctx context.Context, ownerID, cardID uuid.UUID) (*domain.Card, error) {
	query, args, err := s.sb.Select(cardColumns...).
		From("cards").
		Where(sq.Eq{"id": cardID, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build card query: %w", err)
	}

	card, err := scanCard(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}
	return card, nil
}

// List implements store.CardStore.List
func (s *CardStore) List(ctx context.Context, filter store.CardFilter) ([]*domain.Card, error) {
	where := sq.And{sq.Eq{"owner_id": filter.OwnerID}}
	if filter.DeckID != nil {
		where = append(where, sq.Eq{"deck_id": *filter.DeckID})
	}
	if filter.DueAt != nil {
		where = append(where, sq.LtOrEq{"due_date": filter.DueAt.UTC()})
	}

	query, args, err := s.sb.Select(cardColumns...).
		From("cards").
		Where(where).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build card list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("card", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	cards := []*domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, store.NewStoreError("card", "list", "scan failed", MapError(err))
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card", "list", "row iteration failed", MapError(err))
	}
	return cards, nil
}

// UpdateContent implements store.CardStore.UpdateContent
func (s *CardStore) UpdateContent(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return err
	}

	query, args, err := s.sb.Update("cards").
		Set("question", card.Question).
		Set("answer", card.Answer).
		Set("updated_at", card.UpdatedAt.UTC()).
		Where(sq.Eq{"id": card.ID, "owner_id": card.OwnerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card update: %w", err)
	}
	return s.execUpdate(ctx, card.ID, query, args)
}

// UpdateSchedule implements store.CardStore.UpdateSchedule
func (s *CardStore) UpdateSchedule(ctx context.Context, card *domain.Card) error {
	if err := card.Stats.Validate(); err != nil {
		return err
	}

	query, args, err := s.sb.Update("cards").
		SetMap(map[string]interface{}{
			"repetitions":   card.Stats.Repetitions,
			"interval_days": card.Stats.Interval,
			"ease_factor":   card.Stats.EaseFactor,
			"due_date":      card.Stats.DueDate.UTC(),
			"last_review":   nullTime(card.Stats.LastReview),
			"updated_at":    card.UpdatedAt.UTC(),
		}).
		Where(sq.Eq{"id": card.ID, "owner_id": card.OwnerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build schedule update: %w", err)
	}
	return s.execUpdate(ctx, card.ID, query, args)
}

func (s *CardStore) execUpdate(ctx context.Context, cardID uuid.UUID, query string, args []interface{}) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// Delete implements store.CardStore.Delete
func (s *CardStore) Delete(ctx context.Context, ownerID, cardID uuid.UUID) error {
	query, args, err := s.sb.Delete("cards").
		Where(sq.Eq{"id": cardID, "owner_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build card delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// DeleteByDeck implements store.CardStore.DeleteByDeck
func (s *CardStore) DeleteByDeck(ctx context.Context, ownerID, deckID uuid.UUID) (int64, error) {
	return s.deleteWhere(ctx, sq.Eq{"deck_id": deckID, "owner_id": ownerID})
}

// DeleteAllForOwner implements store.CardStore.DeleteAllForOwner
func (s *CardStore) DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	return s.deleteWhere(ctx, sq.Eq{"owner_id": ownerID})
}

func (s *CardStore) deleteWhere(ctx context.Context, where sq.Eq) (int64, error) {
	query, args, err := s.sb.Delete("cards").Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build card delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, store.NewStoreError("card", "delete", "bulk delete failed", MapError(err))
	}
	return result.RowsAffected()
}

// CountByOwner implements store.CardStore.CountByOwner
func (s *CardStore) CountByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	masteryIntervalDays int,
) (store.CardCounts, error) {
	query, args, err := s.sb.Select("COUNT(*)").
		Column(sq.Expr("COALESCE(SUM(CASE WHEN interval_days >= ? THEN 1 ELSE 0 END), 0)", masteryIntervalDays)).
		From("cards").
		Where(sq.Eq{"owner_id": ownerID}).
		ToSql()
	if err != nil {
		return store.CardCounts{}, fmt.Errorf("failed to build card count query: %w", err)
	}

	var counts store.CardCounts
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&counts.Total, &counts.Mastered); err != nil {
		return store.CardCounts{}, store.NewStoreError("card", "count", "aggregate query failed", MapError(err))
	}
	return counts, nil
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card       domain.Card
		tags       string
		lastReview sql.NullTime
	)
	err := row.Scan(
		&card.ID, &card.DeckID, &card.OwnerID, &card.Question, &card.Answer, &card.Type, &tags,
		&card.Stats.Repetitions, &card.Stats.Interval, &card.Stats.EaseFactor,
		&card.Stats.DueDate, &lastReview,
		&card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if card.Tags, err = decodeTags(tags); err != nil {
		return nil, fmt.Errorf("%w: card %s: %v", store.ErrInvalidEntity, card.ID, err)
	}
	card.Stats.DueDate = card.Stats.DueDate.UTC()
	card.Stats.LastReview = timePtr(lastReview)
	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()
	return &card, nil
}
