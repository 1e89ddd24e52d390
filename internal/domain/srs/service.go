package srs

import (
	"fmt"
	"time"

	"github.com/phrazzld/recode/internal/domain"
)

// Outcome is the result of applying one review to a schedule.
type Outcome struct {
	Schedule domain.Schedule
	// Mastered reports whether the review counts towards the owner's
	// mastered total.
	Mastered bool
}

// Service defines the interface for scheduling operations
type Service interface {
	// ApplyReview computes the schedule after a review graded with quality
	// (0 = blackout, 5 = perfect recall) at reviewTime.
	ApplyReview(current domain.Schedule, quality int, reviewTime time.Time) (Outcome, error)

	// Params returns the parameters the service schedules with.
	Params() Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters
func NewDefaultService() (Service, error) {
	return NewServiceWithParams(NewDefaultParams())
}

// NewServiceWithParams creates a new scheduling service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: params cannot be nil", ErrInvalidParams)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	copied := *params
	return &defaultService{params: &copied}, nil
}

// ApplyReview implements the Service interface
func (s *defaultService) ApplyReview(
	current domain.Schedule,
	quality int,
	reviewTime time.Time,
) (Outcome, error) {
	if !s.isValidQuality(quality) {
		return Outcome{}, domain.ErrInvalidQuality
	}

	next := calculateNextSchedule(current, quality, reviewTime, s.params)
	return Outcome{
		Schedule: next,
		Mastered: reachedMastery(current, next, s.params),
	}, nil
}

// Params implements the Service interface
func (s *defaultService) Params() Params {
	return *s.params
}

func (s *defaultService) isValidQuality(quality int) bool {
	return quality >= 0 && quality <= s.params.MaxQuality
}
