package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardService_CreateCard(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t)
	deck := f.deck(t, owner, "Go")

	card, err := f.cards.CreateCard(f.ctx, owner.ID, deck.ID, domain.CardContent{
		Question: "  What does defer do?  ",
		Answer:   "Runs a call when the function returns",
		Tags:     []string{"basics", "basics", " control-flow "},
	})
	require.NoError(t, err)

	assert.Equal(t, "What does defer do?", card.Question)
	assert.Equal(t, domain.DefaultCardType, card.Type)
	assert.Equal(t, []string{"basics", "control-flow"}, card.Tags)
	assert.Equal(t, 0, card.Stats.Repetitions)
	assert.Equal(t, 0, card.Stats.Interval)
	assert.Equal(t, domain.DefaultEaseFactor, card.Stats.EaseFactor)
	assert.True(t, card.Stats.DueDate.Equal(baseTime))
	assert.Nil(t, card.Stats.LastReview)

	stats := f.userStats(t, owner)
	assert.Equal(t, 1, stats.TotalCards)
	assert.Equal(t, 1, stats.Learning)
	assert.Equal(t, 0, stats.Mastered)

	t.Run("deck of another owner", func(t *testing.T) {
		other := f.register(t)
		_, err := f.cards.CreateCard(f.ctx, other.ID, deck.ID, domain.CardContent{Question: "q", Answer: "a"})
		assert.True(t, errors.Is(err, store.ErrDeckNotFound))
		assert.Equal(t, 0, f.userStats(t, other).TotalCards)
	})

	t.Run("empty question is rejected without touching counters", func(t *testing.T) {
		_, err := f.cards.CreateCard(f.ctx, owner.ID, deck.ID, domain.CardContent{Question: " ", Answer: "a"})
		assert.True(t, errors.Is(err, domain.ErrValidation))
		assert.Equal(t, 1, f.userStats(t, owner).TotalCards)
	})
}

func TestCardService_ListCards(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t)
	goDeck := f.deck(t, owner, "Go")
	sqlDeck := f.deck(t, owner, "SQL")

	first := f.card(t, owner, goDeck, "goroutines")
	f.clock.Advance(time.Minute)
	f.card(t, owner, sqlDeck, "joins")
	f.clock.Advance(time.Minute)
	third := f.card(t, owner, goDeck, "channels")

	all, err := f.cards.ListCards(f.ctx, owner.ID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	inDeck, err := f.cards.ListCards(f.ctx, owner.ID, &goDeck.ID)
	require.NoError(t, err)
	require.Len(t, inDeck, 2)
	assert.Equal(t, first.ID, inDeck[0].ID)
	assert.Equal(t, third.ID, inDeck[1].ID)

	t.Run("unknown deck", func(t *testing.T) {
		missing := uuid.New()
		_, err := f.cards.ListCards(f.ctx, owner.ID, &missing)
		assert.True(t, errors.Is(err, store.ErrDeckNotFound))
	})

	t.Run("other owner sees nothing", func(t *testing.T) {
		other := f.register(t)
		cards, err := f.cards.ListCards(f.ctx, other.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, cards)

		_, err = f.cards.GetCard(f.ctx, other.ID, first.ID)
		assert.True(t, errors.Is(err, store.ErrCardNotFound))
	})
}

func TestCardService_GetDueCards(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t)
	deck := f.deck(t, owner, "Go")

	reviewed := f.card(t, owner, deck, "reviewed")
	fresh := f.card(t, owner, deck, "fresh")

	// q=5 on a new card schedules it one day out
	_, err := f.reviews.ApplyReview(f.ctx, owner.ID, reviewed.ID, 5)
	require.NoError(t, err)

	due, err := f.cards.GetDueCards(f.ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, fresh.ID, due[0].ID)

	f.clock.Advance(24 * time.Hour)
	due, err = f.cards.GetDueCards(f.ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, due, 2)
}

func TestCardService_UpdateCard(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t)
	deck := f.deck(t, owner, "Go")
	card := f.card(t, owner, deck, "old question")

	_, err := f.reviews.ApplyReview(f.ctx, owner.ID, card.ID, 4)
	require.NoError(t, err)
	before, err := f.cards.GetCard(f.ctx, owner.ID, card.ID)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	question := "new question"
	updated, err := f.cards.UpdateCard(f.ctx, owner.ID, card.ID, domain.CardPatch{Question: &question})
	require.NoError(t, err)
	assert.Equal(t, question, updated.Question)
	assert.Equal(t, before.Answer, updated.Answer)

	got, err := f.cards.GetCard(f.ctx, owner.ID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, question, got.Question)
	assert.Equal(t, before.Stats.Repetitions, got.Stats.Repetitions)
	assert.Equal(t, before.Stats.Interval, got.Stats.Interval)
	assert.InDelta(t, before.Stats.EaseFactor, got.Stats.EaseFactor, 1e-9)
	assert.True(t, before.Stats.DueDate.Equal(got.Stats.DueDate))

	t.Run("other owner", func(t *testing.T) {
		other := f.register(t)
		_, err := f.cards.UpdateCard(f.ctx, other.ID, card.ID, domain.CardPatch{Question: &question})
		assert.True(t, errors.Is(err, store.ErrCardNotFound))
	})
}

func TestCardService_DeleteCard(t *testing.T) {
	f := newFixture(t)
	owner := f.register(t)
	deck := f.deck(t, owner, "Go")
	card := f.card(t, owner, deck, "q1")
	f.card(t, owner, deck, "q2")

	other := f.register(t)
	err := f.cards.DeleteCard(f.ctx, other.ID, card.ID)
	assert.True(t, errors.Is(err, store.ErrCardNotFound))
	assert.Equal(t, 2, f.userStats(t, owner).TotalCards)

	require.NoError(t, f.cards.DeleteCard(f.ctx, owner.ID, card.ID))

	_, err = f.cards.GetCard(f.ctx, owner.ID, card.ID)
	assert.True(t, errors.Is(err, store.ErrCardNotFound))

	stats := f.userStats(t, owner)
	assert.Equal(t, 1, stats.TotalCards)
	assert.Equal(t, 1, stats.Learning)

	err = f.cards.DeleteCard(f.ctx, owner.ID, card.ID)
	assert.True(t, errors.Is(err, store.ErrCardNotFound))
	assert.Equal(t, 1, f.userStats(t, owner).TotalCards)
}
