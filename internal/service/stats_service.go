package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/phrazzld/recode/internal/store"
)

// Dashboard is the summary shown on the study dashboard.
type Dashboard struct {
	Stats    domain.UserStats `json:"stats"`
	Decks    int              `json:"decks"`
	DueCards int              `json:"dueCards"`
}

// DriftReport compares a user's stored counters with the values derived
// from their cards. Learning is derived as total minus mastered.
type DriftReport struct {
	OwnerID  uuid.UUID        `json:"ownerId"`
	Recorded domain.UserStats `json:"recorded"`
	Derived  domain.UserStats `json:"derived"`
	Drifted  bool             `json:"drifted"`
	Repaired bool             `json:"repaired"`
}

// Err returns an error wrapping ErrDrift when the counters disagree.
func (r DriftReport) Err() error {
	if !r.Drifted {
		return nil
	}
	return fmt.Errorf("%w: owner %s recorded total=%d mastered=%d learning=%d, derived total=%d mastered=%d learning=%d",
		ErrDrift, r.OwnerID,
		r.Recorded.TotalCards, r.Recorded.Mastered, r.Recorded.Learning,
		r.Derived.TotalCards, r.Derived.Mastered, r.Derived.Learning)
}

// StatsService reads aggregate statistics and checks them for drift.
type StatsService interface {
	// Dashboard returns the owner's counters with deck and due-card totals.
	Dashboard(ctx context.Context, ownerID uuid.UUID) (*Dashboard, error)

	// Activity returns review counts per day for the past year.
	Activity(ctx context.Context, ownerID uuid.UUID) ([]domain.ActivityDay, error)

	// Reconcile compares the owner's counters with their cards. With repair
	// set, drifted counters are overwritten with the derived values.
	Reconcile(ctx context.Context, ownerID uuid.UUID, repair bool) (*DriftReport, error)

	// ReconcileAll runs Reconcile for every user and returns the drifted
	// reports.
	ReconcileAll(ctx context.Context, repair bool) ([]DriftReport, error)
}

type statsServiceImpl struct {
	runner              *Runner
	masteryIntervalDays int
	logger              *slog.Logger
}

var _ StatsService = (*statsServiceImpl)(nil)

// NewStatsService creates a new StatsService. masteryIntervalDays is the
// interval at which a card counts as mastered.
func NewStatsService(runner *Runner, masteryIntervalDays int, logger *slog.Logger) (StatsService, error) {
	if runner == nil {
		return nil, domain.NewValidationError("runner", "cannot be nil")
	}
	if masteryIntervalDays <= 0 {
		return nil, domain.NewValidationError("masteryIntervalDays", "must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &statsServiceImpl{
		runner:              runner,
		masteryIntervalDays: masteryIntervalDays,
		logger:              logger.With(slog.String("component", "stats_service")),
	}, nil
}

// Dashboard implements StatsService.Dashboard
func (s *statsServiceImpl) Dashboard(ctx context.Context, ownerID uuid.UUID) (*Dashboard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	var dash Dashboard
	err := s.runner.InTx(ctx, func(ctx context.Context, tx Stores) error {
		user, err := tx.Users.GetByID(ctx, ownerID)
		if err != nil {
			return err
		}
		decks, err := tx.Decks.ListByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		now := s.runner.Now()
		due, err := tx.Cards.List(ctx, store.CardFilter{OwnerID: ownerID, DueAt: &now})
		if err != nil {
			return err
		}
		dash = Dashboard{Stats: user.Stats, Decks: len(decks), DueCards: len(due)}
		return nil
	})
	if err != nil {
		return nil, failWith(log, "dashboard", "failed to load dashboard", err)
	}
	return &dash, nil
}

// Activity implements StatsService.Activity
func (s *statsServiceImpl) Activity(ctx context.Context, ownerID uuid.UUID) ([]domain.ActivityDay, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	cards, err := s.runner.Stores().Cards.List(ctx, store.CardFilter{OwnerID: ownerID})
	if err != nil {
		return nil, failWith(logger.FromContextOrDefault(ctx, s.logger), "activity", "failed to list cards", err)
	}
	return domain.BuildActivity(cards, s.runner.Now(), s.runner.Location()), nil
}

// Reconcile implements StatsService.Reconcile
func (s *statsServiceImpl) Reconcile(ctx context.Context, ownerID uuid.UUID, repair bool) (*DriftReport, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var report DriftReport
	err := s.runner.InOwnerTx(ctx, ownerID, func(ctx context.Context, tx OwnerTx) error {
		counts, err := tx.Cards.CountByOwner(ctx, ownerID, s.masteryIntervalDays)
		if err != nil {
			return err
		}

		recorded := tx.Owner.Stats
		derived := recorded
		derived.TotalCards = counts.Total
		derived.Mastered = counts.Mastered
		derived.Learning = counts.Total - counts.Mastered

		report = DriftReport{
			OwnerID:  ownerID,
			Recorded: recorded,
			Derived:  derived,
			Drifted: recorded.TotalCards != derived.TotalCards ||
				recorded.Mastered != derived.Mastered ||
				recorded.Learning != derived.Learning,
		}
		if !report.Drifted || !repair {
			return nil
		}
		if err := tx.SaveStats(ctx, derived, s.runner.Now()); err != nil {
			return err
		}
		report.Repaired = true
		return nil
	})
	if err != nil {
		return nil, failWith(log, "reconcile", "failed to reconcile stats", err)
	}

	if report.Drifted {
		log.Warn("aggregate counters drifted",
			slog.String("owner_id", ownerID.String()),
			slog.Int("recorded_total", report.Recorded.TotalCards),
			slog.Int("derived_total", report.Derived.TotalCards),
			slog.Int("recorded_mastered", report.Recorded.Mastered),
			slog.Int("derived_mastered", report.Derived.Mastered),
			slog.Int("recorded_learning", report.Recorded.Learning),
			slog.Int("derived_learning", report.Derived.Learning),
			slog.Bool("repaired", report.Repaired))
	}
	return &report, nil
}

// ReconcileAll implements StatsService.ReconcileAll
func (s *statsServiceImpl) ReconcileAll(ctx context.Context, repair bool) ([]DriftReport, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ids, err := s.runner.Stores().Users.ListIDs(ctx)
	if err != nil {
		return nil, failWith(log, "reconcile_all", "failed to list users", err)
	}

	var drifted []DriftReport
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return drifted, err
		}
		report, err := s.Reconcile(ctx, id, repair)
		if err != nil {
			// a user deleted since ListIDs is not a failure of the run
			if store.IsNotFoundError(err) {
				continue
			}
			return drifted, err
		}
		if report.Drifted {
			drifted = append(drifted, *report)
		}
	}

	log.Info("reconciliation finished",
		slog.Int("users", len(ids)),
		slog.Int("drifted", len(drifted)))
	return drifted, nil
}
