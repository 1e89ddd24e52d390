// Package main implements the entry point for the recode server, a local
// JSON API for studying flashcard decks with SM-2 spaced repetition.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/recode/internal/config"
	"github.com/phrazzld/recode/internal/platform/database"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		slog.Error("recode server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run parses flags, loads configuration and serves until a shutdown signal.
func run(args []string) error {
	fs := pflag.NewFlagSet("recode", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	configFile := fs.String("config", "", "path to a config file (default ./config.yaml if present)")
	envFile := fs.String("env-file", ".env", "path to a .env file; ignored when missing")
	migrateOnly := fs.Bool("migrate-only", false, "apply database migrations and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(
		config.WithFlags(fs),
		config.WithConfigFile(*configFile),
		config.WithEnvFile(*envFile),
	)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(logger.Config{Level: cfg.Server.LogLevel, Format: cfg.Server.LogFormat})
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("server configuration loaded",
		slog.String("host", cfg.Server.Host),
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("timezone", cfg.Scheduler.Timezone))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, dialect, err := database.Open(ctx, database.Options{
		URL:          cfg.Database.URL,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	}, log)
	if err != nil {
		return err
	}

	if err := database.Migrate(ctx, db, dialect, log); err != nil {
		_ = db.Close()
		return err
	}
	if *migrateOnly {
		version, err := database.Version(ctx, db, dialect, log)
		if err == nil {
			log.Info("migrations applied", slog.Int64("version", version))
		}
		_ = db.Close()
		return err
	}

	app, err := newApplication(cfg, log, db, dialect)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
