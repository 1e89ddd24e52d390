package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/recode/internal/platform/database"
	"github.com/phrazzld/recode/internal/platform/logger"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds setup work against a test database.
const TestTimeout = 5 * time.Second

// PostgresURLEnv names the variable holding the PostgreSQL test database URL.
const PostgresURLEnv = "RECODE_TEST_DATABASE_URL"

var memCounter atomic.Int64

// Open returns a migrated in-memory SQLite database that is closed when the
// test ends. Each call gets its own database.
func Open(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()

	// a named shared-cache database survives connection recycling
	url := fmt.Sprintf("file:recode-test-%d?mode=memory&cache=shared", memCounter.Add(1))
	return open(t, url)
}

// OpenPostgres returns a migrated PostgreSQL database, skipping the test when
// RECODE_TEST_DATABASE_URL is not set.
func OpenPostgres(t *testing.T) (*sql.DB, database.Dialect) {
	t.Helper()

	url := os.Getenv(PostgresURLEnv)
	if url == "" {
		t.Skipf("%s not set - skipping PostgreSQL test", PostgresURLEnv)
	}
	return open(t, url)
}

func open(t *testing.T, url string) (*sql.DB, database.Dialect) {
	t.Helper()

	log, _ := logger.NewTestLogger()
	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, dialect, err := database.Open(ctx, database.Options{URL: url}, log)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close test database: %v", err)
		}
	})

	require.NoError(t, database.Migrate(ctx, db, dialect, log), "failed to migrate test database")
	return db, dialect
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("warning: failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}
