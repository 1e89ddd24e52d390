package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// goose keeps its dialect, filesystem and logger in package globals
var gooseMu sync.Mutex

// gooseLogger adapts the goose logger interface to slog.
type gooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements goose.Logger. It logs at error level and, unlike the
// goose default, does not exit; the error is returned to the caller.
func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func migrationsDir(dialect Dialect) string {
	return "migrations/" + string(dialect)
}

func gooseDialect(dialect Dialect) string {
	if dialect == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// Migrate applies all pending migrations for the dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect, logger *slog.Logger) error {
	return withGoose(dialect, logger, func() error {
		if err := goose.UpContext(ctx, db, migrationsDir(dialect)); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		return nil
	})
}

// Version returns the current schema version.
func Version(ctx context.Context, db *sql.DB, dialect Dialect, logger *slog.Logger) (int64, error) {
	var version int64
	err := withGoose(dialect, logger, func() error {
		v, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

func withGoose(dialect Dialect, logger *slog.Logger, fn func() error) error {
	if logger == nil {
		logger = slog.Default()
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(&gooseLogger{logger: logger.With(slog.String("component", "migrations"))})
	if err := goose.SetDialect(gooseDialect(dialect)); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	return fn()
}
