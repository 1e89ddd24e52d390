package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestRunInTransaction(t *testing.T) {
	errBegin := errors.New("database is locked")
	errCommit := errors.New("disk I/O error")
	errCallback := errors.New("card insert failed")
	errRollback := errors.New("connection reset")

	tests := []struct {
		name   string
		expect func(mock sqlmock.Sqlmock)
		fn     TxFn
		check  func(t *testing.T, err error)
	}{
		{
			name: "commits when the callback succeeds",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
			fn: func(context.Context, *sql.Tx) error { return nil },
			check: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "rolls back and returns the callback error unchanged",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn: func(context.Context, *sql.Tx) error { return errCallback },
			check: func(t *testing.T, err error) {
				assert.Same(t, errCallback, err)
			},
		},
		{
			name: "wraps a begin failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errBegin)
			},
			fn: func(context.Context, *sql.Tx) error {
				panic("callback must not run without a transaction")
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrTransactionFailed)
				assert.ErrorIs(t, err, errBegin)
			},
		},
		{
			name: "wraps a commit failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errCommit)
			},
			fn: func(context.Context, *sql.Tx) error { return nil },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrTransactionFailed)
				assert.ErrorIs(t, err, errCommit)
			},
		},
		{
			name: "reports a failed rollback alongside the callback error",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(errRollback)
			},
			fn: func(context.Context, *sql.Tx) error { return errCallback },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, errCallback)
				assert.Contains(t, err.Error(), errRollback.Error())
			},
		},
		{
			name: "keeps store sentinels matchable after rollback",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM cards").WillReturnResult(sqlmock.NewResult(0, 3))
				mock.ExpectRollback()
			},
			fn: func(ctx context.Context, tx *sql.Tx) error {
				if _, err := tx.ExecContext(ctx, "DELETE FROM cards WHERE deck_id = ?", 1); err != nil {
					return err
				}
				return ErrDeckNotFound
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrDeckNotFound)
				assert.True(t, IsNotFoundError(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			tt.expect(mock)
			tt.check(t, RunInTransaction(context.Background(), db, tt.fn))
		})
	}
}

func TestRunInTransaction_PanicRollsBack(t *testing.T) {
	for _, rollbackErr := range []error{nil, errors.New("connection reset")} {
		db, mock := newMockDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(rollbackErr)

		assert.PanicsWithValue(t, "corrupt schedule", func() {
			_ = RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
				panic("corrupt schedule")
			})
		})
	}
}
