package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/platform/database"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/phrazzld/recode/internal/store"
)

var userColumns = []string{
	"id", "email", "name", "hashed_password",
	"total_cards", "mastered", "learning", "streak", "last_practice",
	"created_at", "updated_at",
}

// UserStore implements store.UserStore on a SQL database.
type UserStore struct {
	db      store.DBTX
	dialect database.Dialect
	sb      sq.StatementBuilderType
	logger  *slog.Logger
}

// NewUserStore creates a UserStore. It accepts a database connection or
// transaction managed by the caller. If logger is nil, a default logger is
// used.
func NewUserStore(db store.DBTX, dialect database.Dialect, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		db:      db,
		dialect: dialect,
		sb:      dialect.Builder(),
		logger:  logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*UserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx, dialect: s.dialect, sb: s.sb, logger: s.logger}
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query, args, err := s.sb.Insert("users").
		Columns(userColumns...).
		Values(
			user.ID, user.Email, user.Name, user.HashedPassword,
			user.Stats.TotalCards, user.Stats.Mastered, user.Stats.Learning,
			user.Stats.Streak, nullTime(user.Stats.LastPractice),
			user.CreatedAt.UTC(), user.UpdatedAt.UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already registered", slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}

	log.Info("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, sq.Eq{"id": id}, false)
}

// GetForUpdate implements store.UserStore.GetForUpdate
func (s *UserStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, sq.Eq{"id": id}, s.dialect.SupportsRowLocks())
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, sq.Eq{"email": domain.NormalizeEmail(email)}, false)
}

func (s *UserStore) getOne(ctx context.Context, where sq.Eq, lock bool) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	builder := s.sb.Select(userColumns...).From("users").Where(where)
	if lock {
		builder = builder.Suffix("FOR UPDATE")
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	user, err := scanUser(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return user, nil
}

// Update implements store.UserStore.Update
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}

	query, args, err := s.sb.Update("users").
		SetMap(map[string]interface{}{
			"email":         user.Email,
			"name":          user.Name,
			"total_cards":   user.Stats.TotalCards,
			"mastered":      user.Stats.Mastered,
			"learning":      user.Stats.Learning,
			"streak":        user.Stats.Streak,
			"last_practice": nullTime(user.Stats.LastPractice),
			"updated_at":    user.UpdatedAt.UTC(),
		}).
		Where(sq.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// UpdateStats implements store.UserStore.UpdateStats
func (s *UserStore) UpdateStats(
	ctx context.Context,
	id uuid.UUID,
	stats domain.UserStats,
	updatedAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := stats.Validate(); err != nil {
		return err
	}

	query, args, err := s.sb.Update("users").
		SetMap(map[string]interface{}{
			"total_cards":   stats.TotalCards,
			"mastered":      stats.Mastered,
			"learning":      stats.Learning,
			"streak":        stats.Streak,
			"last_practice": nullTime(stats.LastPractice),
			"updated_at":    updatedAt.UTC(),
		}).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build stats update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update user stats",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// ListIDs implements store.UserStore.ListIDs
func (s *UserStore) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	query, args, err := s.sb.Select("id").From("users").OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user id query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, MapError(err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user         domain.User
		lastPractice sql.NullTime
	)
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.HashedPassword,
		&user.Stats.TotalCards, &user.Stats.Mastered, &user.Stats.Learning,
		&user.Stats.Streak, &lastPractice,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Stats.LastPractice = timePtr(lastPractice)
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}
