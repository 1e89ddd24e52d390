package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/store"
)

// Stores bundles the persistence interfaces the services depend on.
type Stores struct {
	Users store.UserStore
	Decks store.DeckStore
	Cards store.CardStore
}

func (s Stores) validate() error {
	if s.Users == nil {
		return domain.NewValidationError("users", "cannot be nil")
	}
	if s.Decks == nil {
		return domain.NewValidationError("decks", "cannot be nil")
	}
	if s.Cards == nil {
		return domain.NewValidationError("cards", "cannot be nil")
	}
	return nil
}

// OwnerTx is the set of transactional stores handed to an InOwnerTx
// callback, together with the owner's locked user row.
type OwnerTx struct {
	Stores
	Owner *domain.User
}

// SaveStats writes stats for the owner and keeps Owner in sync.
func (t OwnerTx) SaveStats(ctx context.Context, stats domain.UserStats, now time.Time) error {
	if err := t.Users.UpdateStats(ctx, t.Owner.ID, stats, now); err != nil {
		return err
	}
	t.Owner.Stats = stats
	t.Owner.UpdatedAt = now.UTC()
	return nil
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.clock = now
		}
	}
}

// WithLocation sets the timezone used to split reviews into calendar days.
func WithLocation(loc *time.Location) Option {
	return func(r *Runner) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// Runner owns the database handle and serializes mutations per owner.
type Runner struct {
	db     *sql.DB
	stores Stores
	locks  *ownerLocks
	clock  func() time.Time
	loc    *time.Location
}

// NewRunner creates a Runner. All services built from the same Runner share
// its owner locks.
func NewRunner(db *sql.DB, stores Stores, opts ...Option) (*Runner, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil")
	}
	if err := stores.validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		db:     db,
		stores: stores,
		locks:  newOwnerLocks(),
		clock:  time.Now,
		loc:    time.UTC,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Now returns the current time in UTC.
func (r *Runner) Now() time.Time {
	return r.clock().UTC()
}

// Location returns the timezone used for calendar-day arithmetic.
func (r *Runner) Location() *time.Location {
	return r.loc
}

// Stores returns the non-transactional stores, for reads.
func (r *Runner) Stores() Stores {
	return r.stores
}

// InOwnerTx runs fn in a transaction holding the owner's lock. It returns
// domain.ErrUnauthenticated for a nil owner and store.ErrUserNotFound when the
// owner does not exist.
func (r *Runner) InOwnerTx(ctx context.Context, ownerID uuid.UUID, fn func(context.Context, OwnerTx) error) error {
	if ownerID == uuid.Nil {
		return domain.ErrUnauthenticated
	}

	unlock := r.locks.lock(ownerID)
	defer unlock()

	return store.RunInTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		otx := OwnerTx{Stores: Stores{
			Users: r.stores.Users.WithTx(tx),
			Decks: r.stores.Decks.WithTx(tx),
			Cards: r.stores.Cards.WithTx(tx),
		}}

		owner, err := otx.Users.GetForUpdate(ctx, ownerID)
		if err != nil {
			return err
		}
		otx.Owner = owner
		return fn(ctx, otx)
	})
}

// InTx runs fn in a plain transaction, for work that is not scoped to one
// owner (registration) or only reads.
func (r *Runner) InTx(ctx context.Context, fn func(context.Context, Stores) error) error {
	return store.RunInTransaction(ctx, r.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, Stores{
			Users: r.stores.Users.WithTx(tx),
			Decks: r.stores.Decks.WithTx(tx),
			Cards: r.stores.Cards.WithTx(tx),
		})
	})
}

func requireOwner(ownerID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	return nil
}

// ownerLocks hands out one mutex per owner and forgets it once no
// goroutine holds or waits for it.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*ownerLock
}

type ownerLock struct {
	mu   sync.Mutex
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[uuid.UUID]*ownerLock)}
}

func (l *ownerLocks) lock(id uuid.UUID) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &ownerLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *ownerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// isExpected reports whether err is an ordinary outcome that is logged at
// debug level rather than as a failure.
func isExpected(err error) bool {
	return store.IsNotFoundError(err) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrUnauthenticated) ||
		errors.Is(err, store.ErrDuplicate)
}
