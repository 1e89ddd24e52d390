package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/recode/internal/platform/logger"
)

// TxFn is the unit of work RunInTransaction wraps.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction commits fn's writes only when fn returns nil.
//
// An error from fn comes back as-is after the rollback so sentinel matching
// still works upstream. Begin and commit failures wrap ErrTransactionFailed.
// A panic in fn rolls back and is re-raised.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) error {
	log := logger.FromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: begin: %w", ErrTransactionFailed, err)
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(log, tx, "panic", slog.Any("panic", p))
			// ALLOW-PANIC: propagating caught panic from transaction
			panic(p)
		}
	}()

	if fnErr := fn(ctx, tx); fnErr != nil {
		if rbErr := rollback(log, tx, "error", slog.String("error", fnErr.Error())); rbErr != nil {
			return errors.Join(fnErr, fmt.Errorf("rollback: %w", rbErr))
		}
		return fnErr
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: commit: %w", ErrTransactionFailed, err)
	}
	log.Debug("transaction committed")
	return nil
}

func rollback(log *slog.Logger, tx *sql.Tx, cause string, attr slog.Attr) error {
	if err := tx.Rollback(); err != nil {
		log.Error("failed to roll back transaction",
			slog.String("cause", cause), attr, slog.String("rollback_error", err.Error()))
		return err
	}
	log.Debug("transaction rolled back", slog.String("cause", cause), attr)
	return nil
}
