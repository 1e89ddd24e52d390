package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card validation errors
var (
	ErrEmptyCardID        = fmt.Errorf("%w: card ID cannot be empty", ErrValidation)
	ErrEmptyCardOwnerID   = fmt.Errorf("%w: card owner ID cannot be empty", ErrValidation)
	ErrEmptyCardDeckID    = fmt.Errorf("%w: card deck ID cannot be empty", ErrValidation)
	ErrEmptyCardQuestion  = fmt.Errorf("%w: card question cannot be empty", ErrValidation)
	ErrEmptyCardAnswer    = fmt.Errorf("%w: card answer cannot be empty", ErrValidation)
	ErrInvalidInterval    = fmt.Errorf("%w: interval must be greater than or equal to 0", ErrValidation)
	ErrInvalidRepetitions = fmt.Errorf("%w: repetitions must be greater than or equal to 0", ErrValidation)
	ErrInvalidEaseFactor  = fmt.Errorf("%w: ease factor must be at least 1.3", ErrValidation)
	ErrDueBeforeReview    = fmt.Errorf("%w: due date cannot precede the last review", ErrValidation)
)

const (
	// DefaultCardType is used when a card is created without a type.
	DefaultCardType = "code"

	// DefaultEaseFactor is the ease factor of a card that was never reviewed.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the floor applied by the scheduler.
	MinEaseFactor = 1.3
)

// Schedule is the spaced-repetition state of a card.
type Schedule struct {
	Repetitions int        `json:"repetitions"`
	Interval    int        `json:"interval"` // days
	EaseFactor  float64    `json:"easeFactor"`
	DueDate     time.Time  `json:"dueDate"`
	LastReview  *time.Time `json:"lastReview"`
}

// NewSchedule returns the schedule of a new card, due immediately.
func NewSchedule(now time.Time) Schedule {
	return Schedule{
		EaseFactor: DefaultEaseFactor,
		DueDate:    now.UTC(),
	}
}

// Validate checks the schedule invariants.
func (s Schedule) Validate() error {
	if s.Repetitions < 0 {
		return ErrInvalidRepetitions
	}
	if s.Interval < 0 {
		return ErrInvalidInterval
	}
	if s.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}
	if s.LastReview != nil && s.DueDate.Before(*s.LastReview) {
		return ErrDueBeforeReview
	}
	return nil
}

// IsDue reports whether the card should be reviewed at now.
func (s Schedule) IsDue(now time.Time) bool {
	return !s.DueDate.After(now)
}

// Card is a question/answer pair inside a deck.
type Card struct {
	ID        uuid.UUID `json:"id"`
	DeckID    uuid.UUID `json:"deckId"`
	OwnerID   uuid.UUID `json:"ownerId"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Type      string    `json:"type"`
	Tags      []string  `json:"tags"`
	Stats     Schedule  `json:"stats"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CardContent is the user-supplied part of a new card.
type CardContent struct {
	Question string
	Answer   string
	Type     string
	Tags     []string
}

// NewCard creates a card in deckID for ownerID with a fresh schedule.
func NewCard(ownerID, deckID uuid.UUID, content CardContent, now time.Time) (*Card, error) {
	now = now.UTC()
	cardType := strings.TrimSpace(content.Type)
	if cardType == "" {
		cardType = DefaultCardType
	}

	card := &Card{
		ID:        uuid.New(),
		DeckID:    deckID,
		OwnerID:   ownerID,
		Question:  strings.TrimSpace(content.Question),
		Answer:    strings.TrimSpace(content.Answer),
		Type:      cardType,
		Tags:      NormalizeTags(content.Tags),
		Stats:     NewSchedule(now),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}
	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCardID
	}
	if c.OwnerID == uuid.Nil {
		return ErrEmptyCardOwnerID
	}
	if c.DeckID == uuid.Nil {
		return ErrEmptyCardDeckID
	}
	if c.Question == "" {
		return ErrEmptyCardQuestion
	}
	if c.Answer == "" {
		return ErrEmptyCardAnswer
	}
	return c.Stats.Validate()
}

// CardPatch updates the content of a card. The schedule is never touched.
type CardPatch struct {
	Question *string
	Answer   *string
}

// Apply merges the patch into the card. The card is left unchanged when the
// result is invalid.
func (c *Card) Apply(p CardPatch, now time.Time) error {
	next := *c
	if p.Question != nil {
		next.Question = strings.TrimSpace(*p.Question)
	}
	if p.Answer != nil {
		next.Answer = strings.TrimSpace(*p.Answer)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = now.UTC()
	*c = next
	return nil
}

// NormalizeTags trims tags, drops empty ones and removes duplicates while
// keeping the order of first appearance.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
