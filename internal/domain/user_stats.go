package domain

import (
	"fmt"
	"time"
)

// ErrNegativeCounter is returned when an aggregate counter falls below zero.
var ErrNegativeCounter = fmt.Errorf("%w: stats counters cannot be negative", ErrValidation)

// UserStats holds a user's aggregate study counters and practice streak.
//
// The counters are maintained incrementally and are not guaranteed to satisfy
// Mastered+Learning <= TotalCards; see the reconciliation check in the service
// layer for detecting drift.
type UserStats struct {
	TotalCards   int        `json:"totalCards"`
	Mastered     int        `json:"mastered"`
	Learning     int        `json:"learning"`
	Streak       int        `json:"streak"`
	LastPractice *time.Time `json:"lastPractice"`
}

// Validate checks that no counter is negative.
func (s UserStats) Validate() error {
	if s.TotalCards < 0 || s.Mastered < 0 || s.Learning < 0 || s.Streak < 0 {
		return ErrNegativeCounter
	}
	return nil
}

// CardAdded returns the stats after a card was created.
func (s UserStats) CardAdded() UserStats {
	s.TotalCards++
	s.Learning++
	return s
}

// CardRemoved returns the stats after a card was deleted. Both counters are
// floored at zero. Learning is decremented even when the removed card had
// been counted as mastered.
func (s UserStats) CardRemoved() UserStats {
	s.TotalCards = floorZero(s.TotalCards - 1)
	s.Learning = floorZero(s.Learning - 1)
	return s
}

// CardMastered returns the stats after a review reached the mastery interval.
func (s UserStats) CardMastered() UserStats {
	s.Mastered++
	s.Learning = floorZero(s.Learning - 1)
	return s
}

// WithPractice returns the stats after a practice session at now, counting
// calendar days in loc. The streak starts at 1, grows by one on the next
// calendar day, is unchanged for another session on the same day (or when the
// clock moved backwards) and resets to 1 after a skipped day. LastPractice is
// stored as midnight of the practice day.
func (s UserStats) WithPractice(now time.Time, loc *time.Location) UserStats {
	if loc == nil {
		loc = time.UTC
	}
	today := startOfDay(now, loc)

	if s.LastPractice == nil {
		s.Streak = 1
		s.LastPractice = &today
		return s
	}

	switch diff := DaysBetween(*s.LastPractice, now, loc); {
	case diff == 1:
		s.Streak++
		s.LastPractice = &today
	case diff > 1:
		s.Streak = 1
		s.LastPractice = &today
	}
	return s
}

// StatsPatch is a partial update of UserStats; nil fields are left as is.
type StatsPatch struct {
	TotalCards   *int
	Mastered     *int
	Learning     *int
	Streak       *int
	LastPractice *time.Time
}

// Apply returns s with the patch merged in.
func (p StatsPatch) Apply(s UserStats) UserStats {
	if p.TotalCards != nil {
		s.TotalCards = *p.TotalCards
	}
	if p.Mastered != nil {
		s.Mastered = *p.Mastered
	}
	if p.Learning != nil {
		s.Learning = *p.Learning
	}
	if p.Streak != nil {
		s.Streak = *p.Streak
	}
	if p.LastPractice != nil {
		t := p.LastPractice.UTC()
		s.LastPractice = &t
	}
	return s
}

// DaysBetween returns the number of calendar days from a to b in loc.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	// civil dates compared in UTC so DST transitions don't skew the count
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).UTC()
}

func floorZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
