package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/domain/srs"
	"github.com/phrazzld/recode/internal/platform/logger"
)

// ReviewResult is the outcome of one review.
type ReviewResult struct {
	Card *domain.Card `json:"card"`
	// Mastered reports whether the review was counted as a mastered card.
	Mastered bool             `json:"mastered"`
	Stats    domain.UserStats `json:"stats"`
}

// ReviewService applies reviews to cards and tracks the practice streak.
type ReviewService interface {
	// ApplyReview grades one of the owner's cards with quality (0-5) at the
	// current time, persists the new schedule and, when the scheduler reports
	// mastery, moves one card from learning to mastered.
	ApplyReview(ctx context.Context, ownerID, cardID uuid.UUID, quality int) (*ReviewResult, error)

	// RecordPractice updates the owner's streak for today.
	RecordPractice(ctx context.Context, ownerID uuid.UUID) (domain.UserStats, error)

	// SubmitReview is ApplyReview followed by RecordPractice in a single
	// transaction.
	SubmitReview(ctx context.Context, ownerID, cardID uuid.UUID, quality int) (*ReviewResult, error)
}

type reviewServiceImpl struct {
	runner     *Runner
	srsService srs.Service
	logger     *slog.Logger
}

var _ ReviewService = (*reviewServiceImpl)(nil)

// NewReviewService creates a new ReviewService.
func NewReviewService(runner *Runner, srsService srs.Service, logger *slog.Logger) (ReviewService, error) {
	if runner == nil {
		return nil, domain.NewValidationError("runner", "cannot be nil")
	}
	if srsService == nil {
		return nil, domain.NewValidationError("srsService", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		runner:     runner,
		srsService: srsService,
		logger:     logger.With(slog.String("component", "review_service")),
	}, nil
}

// ApplyReview implements ReviewService.ApplyReview
func (s *reviewServiceImpl) ApplyReview(
	ctx context.Context,
	ownerID, cardID uuid.UUID,
	quality int,
) (*ReviewResult, error) {
	return s.review(ctx, "apply_review", ownerID, cardID, quality, false)
}

// SubmitReview implements ReviewService.SubmitReview
func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	ownerID, cardID uuid.UUID,
	quality int,
) (*ReviewResult, error) {
	return s.review(ctx, "submit_review", ownerID, cardID, quality, true)
}

func (s *reviewServiceImpl) review(
	ctx context.Context,
	op string,
	ownerID, cardID uuid.UUID,
	quality int,
	withPractice bool,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *ReviewResult
	err := s.runner.InOwnerTx(ctx, ownerID, func(ctx context.Context, tx OwnerTx) error {
		card, err := tx.Cards.Get(ctx, ownerID, cardID)
		if err != nil {
			return err
		}

		now := s.runner.Now()
		outcome, err := s.srsService.ApplyReview(card.Stats, quality, now)
		if err != nil {
			return err
		}

		card.Stats = outcome.Schedule
		card.UpdatedAt = now
		if err := tx.Cards.UpdateSchedule(ctx, card); err != nil {
			return err
		}

		stats := tx.Owner.Stats
		if outcome.Mastered {
			stats = stats.CardMastered()
		}
		if withPractice {
			stats = stats.WithPractice(now, s.runner.Location())
		}
		if stats != tx.Owner.Stats {
			if err := tx.SaveStats(ctx, stats, now); err != nil {
				return err
			}
		}

		result = &ReviewResult{Card: card, Mastered: outcome.Mastered, Stats: tx.Owner.Stats}
		return nil
	})
	if err != nil {
		return nil, failWith(log, op, "failed to review card", err)
	}

	log.Debug("card reviewed",
		slog.String("card_id", cardID.String()),
		slog.Int("quality", quality),
		slog.Int("interval", result.Card.Stats.Interval),
		slog.Float64("ease_factor", result.Card.Stats.EaseFactor),
		slog.Time("due_date", result.Card.Stats.DueDate),
		slog.Bool("mastered", result.Mastered))
	return result, nil
}

// RecordPractice implements ReviewService.RecordPractice
func (s *reviewServiceImpl) RecordPractice(ctx context.Context, ownerID uuid.UUID) (domain.UserStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var stats domain.UserStats
	err := s.runner.InOwnerTx(ctx, ownerID, func(ctx context.Context, tx OwnerTx) error {
		now := s.runner.Now()
		stats = tx.Owner.Stats.WithPractice(now, s.runner.Location())
		if stats == tx.Owner.Stats {
			return nil
		}
		return tx.SaveStats(ctx, stats, now)
	})
	if err != nil {
		return domain.UserStats{}, failWith(log, "record_practice", "failed to record practice", err)
	}

	log.Debug("practice recorded", slog.Int("streak", stats.Streak))
	return stats, nil
}
