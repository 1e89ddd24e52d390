package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleSnapshot() *domain.Snapshot {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	reviewed := created.Add(48 * time.Hour)
	ownerID := uuid.New()
	deck := &domain.Deck{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        "Go",
		Description: "Concurrency",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	return &domain.Snapshot{
		Decks: []*domain.Deck{deck},
		Cards: []*domain.Card{
			{
				ID:       uuid.New(),
				DeckID:   deck.ID,
				OwnerID:  ownerID,
				Question: "What closes a channel?",
				Answer:   "close(ch)",
				Type:     "code",
				Tags:     []string{"channels", "basics"},
				Stats: domain.Schedule{
					Repetitions: 2,
					Interval:    6,
					EaseFactor:  2.6,
					DueDate:     reviewed.Add(6 * 24 * time.Hour),
					LastReview:  &reviewed,
				},
				CreatedAt: created,
				UpdatedAt: reviewed,
			},
		},
		User: &domain.User{
			ID:    ownerID,
			Email: "ada@example.com",
			Stats: domain.UserStats{TotalCards: 1, Learning: 1, Streak: 3, LastPractice: &reviewed},
		},
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWriteSnapshot(t *testing.T) {
	snap := sampleSnapshot()

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, snap))

	f := openWorkbook(t, buf.Bytes())
	assert.Equal(t, []string{DecksSheet, CardsSheet, StatsSheet}, f.GetSheetList())

	decks, err := f.GetRows(DecksSheet)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "Name", decks[0][1])
	assert.Equal(t, snap.Decks[0].ID.String(), decks[1][0])
	assert.Equal(t, "Go", decks[1][1])
	assert.Equal(t, "2026-03-01T08:00:00Z", decks[1][3])

	cards, err := f.GetRows(CardsSheet)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "close(ch)", cards[1][3])
	assert.Equal(t, "channels, basics", cards[1][5])
	assert.Equal(t, "6", cards[1][7])
	assert.Equal(t, "2026-03-03T08:00:00Z", cards[1][10])

	stats, err := f.GetRows(StatsSheet)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, []string{"1", "0", "1", "3", "2026-03-03T08:00:00Z"}, stats[1])
}

func TestWriteSnapshot_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, &domain.Snapshot{}))

	f := openWorkbook(t, buf.Bytes())
	for _, sheet := range []string{DecksSheet, CardsSheet, StatsSheet} {
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		assert.Len(t, rows, 1, "only the header in %s", sheet)
	}
}

func TestWriteSnapshot_Nil(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteSnapshot(&buf, nil))
	assert.Zero(t, buf.Len())
}
