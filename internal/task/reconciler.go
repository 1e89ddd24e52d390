package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/phrazzld/recode/internal/domain"
	"github.com/phrazzld/recode/internal/service"
)

// StatsReconciler is the part of the stats service the job needs.
type StatsReconciler interface {
	ReconcileAll(ctx context.Context, repair bool) ([]service.DriftReport, error)
}

// ReconcilerConfig controls the periodic statistics check.
type ReconcilerConfig struct {
	// Interval between runs. The first run happens when the job starts.
	Interval time.Duration

	// Repair rewrites drifted counters instead of only reporting them.
	Repair bool

	// Timeout bounds a single run. Zero means no bound beyond Stop.
	Timeout time.Duration
}

// Reconciler periodically compares every user's stored counters with the
// values derived from their cards.
type Reconciler struct {
	stats     StatsReconciler
	config    ReconcilerConfig
	logger    *slog.Logger
	scheduler *gocron.Scheduler

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	started bool
}

// NewReconciler creates a Reconciler. It does nothing until Start is called.
func NewReconciler(stats StatsReconciler, config ReconcilerConfig, logger *slog.Logger) (*Reconciler, error) {
	if stats == nil {
		return nil, domain.NewValidationError("stats", "cannot be nil")
	}
	if config.Interval <= 0 {
		return nil, domain.NewValidationError("interval", "must be positive")
	}
	if logger == nil {
		logger = slog.Default()
	}

	scheduler := gocron.NewScheduler(time.UTC)
	// A slow run must never overlap the next one.
	scheduler.SingletonModeAll()

	ctx, cancel := context.WithCancel(context.Background())
	return &Reconciler{
		stats:     stats,
		config:    config,
		logger:    logger.With(slog.String("component", "stats_reconciler")),
		scheduler: scheduler,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start schedules the job and returns immediately.
func (r *Reconciler) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return errors.New("reconciler already started")
	}

	if _, err := r.scheduler.Every(r.config.Interval).Do(r.run); err != nil {
		return fmt.Errorf("failed to schedule reconciliation: %w", err)
	}
	r.scheduler.StartAsync()
	r.started = true

	r.logger.Info("stats reconciliation scheduled",
		slog.Duration("interval", r.config.Interval),
		slog.Bool("repair", r.config.Repair))
	return nil
}

// Stop cancels a run in progress and stops the schedule.
func (r *Reconciler) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancel()
	if r.started {
		r.scheduler.Stop()
		r.started = false
	}
}

// RunOnce performs a single reconciliation pass and returns the drifted
// reports.
func (r *Reconciler) RunOnce(ctx context.Context) ([]service.DriftReport, error) {
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	reports, err := r.stats.ReconcileAll(ctx, r.config.Repair)
	if err != nil {
		return nil, fmt.Errorf("reconciliation failed: %w", err)
	}

	repaired := 0
	for _, report := range reports {
		if report.Repaired {
			repaired++
		}
	}
	level := slog.LevelDebug
	if len(reports) > 0 {
		level = slog.LevelWarn
	}
	r.logger.Log(ctx, level, "stats reconciliation finished",
		slog.Int("drifted", len(reports)),
		slog.Int("repaired", repaired),
		slog.Duration("duration", time.Since(start)))
	return reports, nil
}

// run is the scheduled job body.
func (r *Reconciler) run() {
	if _, err := r.RunOnce(r.ctx); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Error("scheduled stats reconciliation failed", slog.String("error", err.Error()))
	}
}
