package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
)

// UserStore persists accounts and the denormalized stats they carry. Lookups
// of a missing user return ErrUserNotFound. Email collisions return
// ErrEmailExists.
type UserStore interface {
	// Create expects HashedPassword to be set already.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetForUpdate is GetByID plus a row lock held until the transaction
	// ends, on databases that support one. Every owner-scoped mutation
	// begins here.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail expects an already normalized address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update writes name, email and stats. The password hash is untouched.
	Update(ctx context.Context, user *domain.User) error

	// UpdateStats rewrites the counters and streak only.
	UpdateStats(ctx context.Context, id uuid.UUID, stats domain.UserStats, updatedAt time.Time) error

	// ListIDs feeds maintenance jobs that walk every account.
	ListIDs(ctx context.Context) ([]uuid.UUID, error)

	WithTx(tx *sql.Tx) UserStore
}
