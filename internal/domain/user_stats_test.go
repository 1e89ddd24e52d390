package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestUserStatsCounters(t *testing.T) {
	t.Parallel()
	s := UserStats{}.CardAdded().CardAdded()
	assert.Equal(t, UserStats{TotalCards: 2, Learning: 2}, s)

	s = s.CardMastered()
	assert.Equal(t, UserStats{TotalCards: 2, Learning: 1, Mastered: 1}, s)

	s = s.CardRemoved().CardRemoved().CardRemoved()
	assert.Equal(t, 0, s.TotalCards, "total is floored at zero")
	assert.Equal(t, 0, s.Learning, "learning is floored at zero")
	assert.Equal(t, 1, s.Mastered, "removing a card never touches mastered")

	assert.Equal(t, 0, UserStats{}.CardMastered().Learning)
}

func TestWithPractice(t *testing.T) {
	t.Parallel()
	last := day(2024, 5, 10, 0)

	tests := []struct {
		name       string
		stats      UserStats
		now        time.Time
		wantStreak int
		wantLast   time.Time
	}{
		{"first practice", UserStats{}, day(2024, 5, 10, 18), 1, day(2024, 5, 10, 0)},
		{"same day", UserStats{Streak: 3, LastPractice: &last}, day(2024, 5, 10, 23), 3, last},
		{"next day", UserStats{Streak: 3, LastPractice: &last}, day(2024, 5, 11, 1), 4, day(2024, 5, 11, 0)},
		{"skipped a day", UserStats{Streak: 3, LastPractice: &last}, day(2024, 5, 12, 9), 1, day(2024, 5, 12, 0)},
		{"clock moved back", UserStats{Streak: 3, LastPractice: &last}, day(2024, 5, 9, 9), 3, last},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := tc.stats.WithPractice(tc.now, time.UTC)
			assert.Equal(t, tc.wantStreak, got.Streak)
			require.NotNil(t, got.LastPractice)
			assert.True(t, tc.wantLast.Equal(*got.LastPractice), "last practice %s", got.LastPractice)
		})
	}
}

func TestWithPracticeUsesReferenceTimezone(t *testing.T) {
	t.Parallel()
	tokyo := time.FixedZone("JST", 9*3600)
	// 23:30 UTC on the 10th is already the 11th in Tokyo
	first := UserStats{}.WithPractice(day(2024, 5, 10, 12), tokyo)
	second := first.WithPractice(time.Date(2024, 5, 10, 23, 30, 0, 0, time.UTC), tokyo)
	assert.Equal(t, 2, second.Streak)

	sameDayUTC := UserStats{}.WithPractice(day(2024, 5, 10, 12), time.UTC).
		WithPractice(time.Date(2024, 5, 10, 23, 30, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, 1, sameDayUTC.Streak)
}

func TestDaysBetweenAcrossDST(t *testing.T) {
	t.Parallel()
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("timezone database unavailable")
	}
	before := time.Date(2024, 3, 9, 12, 0, 0, 0, ny)
	after := time.Date(2024, 3, 10, 12, 0, 0, 0, ny)
	assert.Equal(t, 1, DaysBetween(before, after, ny))
}

func TestStatsPatchApply(t *testing.T) {
	t.Parallel()
	streak := 7
	practiced := day(2024, 1, 2, 0)
	got := StatsPatch{Streak: &streak, LastPractice: &practiced}.Apply(UserStats{TotalCards: 3, Learning: 3})
	assert.Equal(t, 3, got.TotalCards)
	assert.Equal(t, 7, got.Streak)
	require.NotNil(t, got.LastPractice)
	assert.Equal(t, practiced, *got.LastPractice)
}
