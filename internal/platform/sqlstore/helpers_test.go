package sqlstore_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/platform/database"
	"github.com/phrazzld/recode/internal/platform/sqlstore"
	"github.com/phrazzld/recode/internal/testdb"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

type stores struct {
	db    *sql.DB
	users *sqlstore.UserStore
	decks *sqlstore.DeckStore
	cards *sqlstore.CardStore
}

func newStores(t *testing.T) stores {
	t.Helper()
	db, dialect := testdb.Open(t)
	return storesFor(db, dialect)
}

func storesFor(db *sql.DB, dialect database.Dialect) stores {
	return stores{
		db:    db,
		users: sqlstore.NewUserStore(db, dialect, nil),
		decks: sqlstore.NewDeckStore(db, dialect, nil),
		cards: sqlstore.NewCardStore(db, dialect, nil),
	}
}

func createUser(t *testing.T, s stores) *domain.User {
	t.Helper()
	user, err := domain.NewUser("", uuid.NewString()+"@example.com", "$2a$10$hash", baseTime)
	require.NoError(t, err)
	require.NoError(t, s.users.Create(context.Background(), user))
	return user
}

func createDeck(t *testing.T, s stores, owner *domain.User, name string) *domain.Deck {
	t.Helper()
	deck, err := domain.NewDeck(owner.ID, name, "", baseTime)
	require.NoError(t, err)
	require.NoError(t, s.decks.Create(context.Background(), deck))
	return deck
}

func createCard(t *testing.T, s stores, deck *domain.Deck, question string, at time.Time) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(deck.OwnerID, deck.ID, domain.CardContent{
		Question: question,
		Answer:   "answer to " + question,
		Tags:     []string{"go", "sql"},
	}, at)
	require.NoError(t, err)
	require.NoError(t, s.cards.Create(context.Background(), card))
	return card
}
