package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	t.Parallel()
	owner := uuid.New()
	deck, err := NewDeck(owner, " Go ", "concurrency", time.Now())
	require.NoError(t, err)
	assert.Equal(t, owner, deck.OwnerID)
	assert.Equal(t, "Go", deck.Name)

	_, err = NewDeck(uuid.Nil, "Go", "", time.Now())
	assert.ErrorIs(t, err, ErrEmptyDeckOwnerID)

	_, err = NewDeck(owner, "", "", time.Now())
	assert.ErrorIs(t, err, ErrEmptyDeckName)

	_, err = NewDeck(owner, strings.Repeat("n", maxDeckNameLength+1), "", time.Now())
	assert.ErrorIs(t, err, ErrDeckNameTooLong)
}

func TestDeckApply(t *testing.T) {
	t.Parallel()
	deck, err := NewDeck(uuid.New(), "Go", "old", time.Now())
	require.NoError(t, err)

	desc := "new"
	require.NoError(t, deck.Apply(DeckPatch{Description: &desc}, time.Now()))
	assert.Equal(t, "Go", deck.Name)
	assert.Equal(t, "new", deck.Description)

	blank := " "
	assert.ErrorIs(t, deck.Apply(DeckPatch{Name: &blank}, time.Now()), ErrEmptyDeckName)
	assert.Equal(t, "Go", deck.Name)
}
