package srs

import (
	"errors"
	"fmt"

	"github.com/phrazzld/recode/internal/domain"
)

// MasteryPolicy decides when a review counts a card as mastered.
type MasteryPolicy string

const (
	// MasteryEveryReview counts every review whose new interval reaches the
	// mastery threshold, so a card reviewed repeatedly at long intervals is
	// counted again each time. This matches the historical counters.
	MasteryEveryReview MasteryPolicy = "every_review"

	// MasteryFirstCrossing counts a card only on the review that moves its
	// interval from below the threshold to at or above it.
	MasteryFirstCrossing MasteryPolicy = "first_crossing"
)

// ErrInvalidParams is returned when scheduler parameters are inconsistent.
var ErrInvalidParams = errors.New("invalid scheduler parameters")

// Params defines all configurable parameters of the scheduler.
type Params struct {
	// Ease factors never drop below this floor
	MinEaseFactor float64

	// Quality grades run from 0 to MaxQuality; grades below PassingQuality
	// reset the card
	MaxQuality     int
	PassingQuality int

	// Intervals in days after the first and second successful review
	FirstInterval  int
	SecondInterval int

	// Reviews landing on an interval of at least this many days count as
	// mastery
	MasteryIntervalDays int
	MasteryPolicy       MasteryPolicy
}

// ParamsConfig allows overriding the defaults; zero values keep them.
type ParamsConfig struct {
	MasteryIntervalDays int
	MasteryPolicy       MasteryPolicy
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:       domain.MinEaseFactor,
		MaxQuality:          5,
		PassingQuality:      3,
		FirstInterval:       1,
		SecondInterval:      6,
		MasteryIntervalDays: 30,
		MasteryPolicy:       MasteryEveryReview,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()
	if config.MasteryIntervalDays > 0 {
		params.MasteryIntervalDays = config.MasteryIntervalDays
	}
	if config.MasteryPolicy != "" {
		params.MasteryPolicy = config.MasteryPolicy
	}
	return params
}

// Validate checks that the parameters describe a usable scheduler.
func (p *Params) Validate() error {
	switch {
	case p.MinEaseFactor <= 0:
		return fmt.Errorf("%w: min ease factor must be positive", ErrInvalidParams)
	case p.PassingQuality <= 0 || p.PassingQuality > p.MaxQuality:
		return fmt.Errorf("%w: passing quality out of range", ErrInvalidParams)
	case p.FirstInterval < 1 || p.SecondInterval < p.FirstInterval:
		return fmt.Errorf("%w: intervals must grow", ErrInvalidParams)
	case p.MasteryIntervalDays < 1:
		return fmt.Errorf("%w: mastery interval must be at least one day", ErrInvalidParams)
	}
	switch p.MasteryPolicy {
	case MasteryEveryReview, MasteryFirstCrossing:
		return nil
	default:
		return fmt.Errorf("%w: unknown mastery policy %q", ErrInvalidParams, p.MasteryPolicy)
	}
}
