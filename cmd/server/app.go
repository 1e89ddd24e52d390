package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/recode/internal/config"
	"github.com/phrazzld/recode/internal/domain/srs"
	"github.com/phrazzld/recode/internal/platform/database"
	"github.com/phrazzld/recode/internal/platform/sqlstore"
	"github.com/phrazzld/recode/internal/service"
	"github.com/phrazzld/recode/internal/service/auth"
	"github.com/phrazzld/recode/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService auth.JWTService

	userService     service.UserService
	deckService     service.DeckService
	cardService     service.CardService
	reviewService   service.ReviewService
	statsService    service.StatsService
	transferService service.TransferService

	reconciler *task.Reconciler
}

// newApplication wires stores and services on top of an open, migrated
// database. Nothing is started.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	dialect database.Dialect,
) (*application, error) {
	app := &application{config: cfg, logger: logger, db: db}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	runner, err := service.NewRunner(db, service.Stores{
		Users: sqlstore.NewUserStore(db, dialect, logger),
		Decks: sqlstore.NewDeckStore(db, dialect, logger),
		Cards: sqlstore.NewCardStore(db, dialect, logger),
	}, service.WithLocation(cfg.Scheduler.Location()))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction runner: %w", err)
	}

	params := srs.NewParams(srs.ParamsConfig{
		MasteryIntervalDays: cfg.Scheduler.MasteryIntervalDays,
		MasteryPolicy:       srs.MasteryPolicy(cfg.Scheduler.MasteryPolicy),
	})
	srsService, err := srs.NewServiceWithParams(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create SRS service: %w", err)
	}

	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)
	if app.userService, err = service.NewUserService(runner, hasher, hasher, logger); err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}
	if app.deckService, err = service.NewDeckService(runner, logger); err != nil {
		return nil, fmt.Errorf("failed to create deck service: %w", err)
	}
	if app.cardService, err = service.NewCardService(runner, logger); err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}
	if app.reviewService, err = service.NewReviewService(runner, srsService, logger); err != nil {
		return nil, fmt.Errorf("failed to create review service: %w", err)
	}
	if app.statsService, err = service.NewStatsService(runner, params.MasteryIntervalDays, logger); err != nil {
		return nil, fmt.Errorf("failed to create stats service: %w", err)
	}
	if app.transferService, err = service.NewTransferService(runner, logger); err != nil {
		return nil, fmt.Errorf("failed to create transfer service: %w", err)
	}

	if cfg.Reconcile.Enabled {
		app.reconciler, err = task.NewReconciler(app.statsService, task.ReconcilerConfig{
			Interval: cfg.Reconcile.Interval(),
			Repair:   cfg.Reconcile.Repair,
			Timeout:  5 * time.Minute,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create stats reconciler: %w", err)
		}
	}

	logger.Info("application initialized successfully",
		slog.String("mastery_policy", string(params.MasteryPolicy)),
		slog.Bool("reconcile", cfg.Reconcile.Enabled))
	return app, nil
}

// Run starts background jobs and the HTTP server, and blocks until ctx is
// cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	if app.reconciler != nil {
		if err := app.reconciler.Start(); err != nil {
			app.cleanup()
			return err
		}
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.reconciler != nil {
		app.reconciler.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
