package srs

import (
	"math"
	"time"

	"github.com/phrazzld/recode/internal/domain"
)

// calculateNewInterval determines the interval in days after a review.
//
// A passing grade advances the card: the first success schedules it after
// params.FirstInterval days, the second after params.SecondInterval days, and
// every later success multiplies the previous interval by the ease factor the
// card had before this review. A failing grade resets the interval to zero so
// the card is due again immediately.
func calculateNewInterval(repetitions, interval int, easeFactor float64, quality int, params *Params) int {
	if quality < params.PassingQuality {
		return 0
	}
	switch repetitions {
	case 0:
		return params.FirstInterval
	case 1:
		return params.SecondInterval
	default:
		return int(math.Round(float64(interval) * easeFactor))
	}
}

// calculateNewEaseFactor applies the SM-2 ease adjustment
//
//	EF' = EF + (0.1 - d*(0.08 + d*0.02)),  d = MaxQuality - quality
//
// and clamps the result to params.MinEaseFactor. A perfect grade raises the
// ease factor by 0.1, a grade one below leaves it unchanged and lower grades
// reduce it.
func calculateNewEaseFactor(easeFactor float64, quality int, params *Params) float64 {
	d := float64(params.MaxQuality - quality)
	newEF := easeFactor + (0.1 - d*(0.08+d*0.02))
	if newEF < params.MinEaseFactor {
		return params.MinEaseFactor
	}
	return newEF
}

// calculateNextSchedule returns the schedule after a review at reviewTime.
// The input is not modified.
func calculateNextSchedule(current domain.Schedule, quality int, reviewTime time.Time, params *Params) domain.Schedule {
	reviewTime = reviewTime.UTC()

	next := domain.Schedule{
		Interval:   calculateNewInterval(current.Repetitions, current.Interval, current.EaseFactor, quality, params),
		EaseFactor: calculateNewEaseFactor(current.EaseFactor, quality, params),
		LastReview: &reviewTime,
	}
	if quality >= params.PassingQuality {
		next.Repetitions = current.Repetitions + 1
	}
	next.DueDate = reviewTime.AddDate(0, 0, next.Interval)
	return next
}

// reachedMastery reports whether moving from prev to next counts as mastering
// the card under the configured policy.
func reachedMastery(prev, next domain.Schedule, params *Params) bool {
	if next.Interval < params.MasteryIntervalDays {
		return false
	}
	if params.MasteryPolicy == MasteryFirstCrossing {
		return prev.Interval < params.MasteryIntervalDays
	}
	return true
}
