package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/domain/srs"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/phrazzld/recode/internal/platform/sqlstore"
	"github.com/phrazzld/recode/internal/service"
	"github.com/phrazzld/recode/internal/service/auth"
	"github.com/phrazzld/recode/internal/testdb"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct-horse-battery"

var baseTime = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

// fakeClock is a settable time source shared by the services under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	ctx      context.Context
	clock    *fakeClock
	runner   *service.Runner
	users    *service.UserServiceImpl
	decks    service.DeckService
	cards    service.CardService
	reviews  service.ReviewService
	stats    service.StatsService
	transfer service.TransferService
}

type fixtureOption struct {
	params *srs.Params
	loc    *time.Location
}

func withParams(p *srs.Params) func(*fixtureOption) {
	return func(o *fixtureOption) { o.params = p }
}

func withLocation(loc *time.Location) func(*fixtureOption) {
	return func(o *fixtureOption) { o.loc = loc }
}

func newFixture(t *testing.T, opts ...func(*fixtureOption)) *fixture {
	t.Helper()

	cfg := fixtureOption{params: srs.NewDefaultParams()}
	for _, opt := range opts {
		opt(&cfg)
	}

	db, dialect := testdb.Open(t)
	log, _ := logger.NewTestLogger()
	clock := &fakeClock{now: baseTime}

	runner, err := service.NewRunner(db, service.Stores{
		Users: sqlstore.NewUserStore(db, dialect, log),
		Decks: sqlstore.NewDeckStore(db, dialect, log),
		Cards: sqlstore.NewCardStore(db, dialect, log),
	}, service.WithClock(clock.Now), service.WithLocation(cfg.loc))
	require.NoError(t, err)

	srsService, err := srs.NewServiceWithParams(cfg.params)
	require.NoError(t, err)
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)

	f := &fixture{ctx: context.Background(), clock: clock, runner: runner}
	f.users, err = service.NewUserService(runner, hasher, hasher, log)
	require.NoError(t, err)
	f.decks, err = service.NewDeckService(runner, log)
	require.NoError(t, err)
	f.cards, err = service.NewCardService(runner, log)
	require.NoError(t, err)
	f.reviews, err = service.NewReviewService(runner, srsService, log)
	require.NoError(t, err)
	f.stats, err = service.NewStatsService(runner, cfg.params.MasteryIntervalDays, log)
	require.NoError(t, err)
	f.transfer, err = service.NewTransferService(runner, log)
	require.NoError(t, err)
	return f
}

func (f *fixture) register(t *testing.T) *domain.User {
	t.Helper()
	user, err := f.users.Register(f.ctx, "", uuid.NewString()+"@example.com", testPassword)
	require.NoError(t, err)
	return user
}

func (f *fixture) deck(t *testing.T, owner *domain.User, name string) *domain.Deck {
	t.Helper()
	deck, err := f.decks.CreateDeck(f.ctx, owner.ID, name, "")
	require.NoError(t, err)
	return deck
}

func (f *fixture) card(t *testing.T, owner *domain.User, deck *domain.Deck, question string) *domain.Card {
	t.Helper()
	card, err := f.cards.CreateCard(f.ctx, owner.ID, deck.ID, domain.CardContent{
		Question: question,
		Answer:   "answer to " + question,
	})
	require.NoError(t, err)
	return card
}

func (f *fixture) userStats(t *testing.T, owner *domain.User) domain.UserStats {
	t.Helper()
	user, err := f.users.GetUser(f.ctx, owner.ID)
	require.NoError(t, err)
	return user.Stats
}
