package sqlstore_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/recode/internal/platform/sqlstore"
	"github.com/phrazzld/recode/internal/store"
	"github.com/stretchr/testify/assert"
)

type fakeResult struct {
	rowsAffected int64
	err          error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, r.err }
func (r fakeResult) RowsAffected() (int64, error) { return r.rowsAffected, r.err }

func TestMapError(t *testing.T) {
	t.Parallel()

	generic := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: store.ErrNotFound},
		{name: "pg unique", err: &pgconn.PgError{Code: "23505"}, want: store.ErrDuplicate},
		{name: "pg foreign key", err: &pgconn.PgError{Code: "23503"}, want: store.ErrInvalidEntity},
		{name: "pg check", err: &pgconn.PgError{Code: "23514"}, want: store.ErrInvalidEntity},
		{name: "pg not null", err: &pgconn.PgError{Code: "23502"}, want: store.ErrInvalidEntity},
		{name: "wrapped pg unique", err: fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), want: store.ErrDuplicate},
		{name: "unmapped", err: generic, want: generic},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, sqlstore.MapError(tc.err), tc.want)
		})
	}

	assert.NoError(t, sqlstore.MapError(nil))
}

func TestViolationHelpers(t *testing.T) {
	t.Parallel()

	assert.True(t, sqlstore.IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, sqlstore.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, sqlstore.IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, sqlstore.IsCheckConstraintViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, sqlstore.IsUniqueViolation(nil))
	assert.False(t, sqlstore.IsForeignKeyViolation(errors.New("plain")))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, sqlstore.CheckRowsAffected(fakeResult{rowsAffected: 1}, store.ErrCardNotFound))
	assert.ErrorIs(t, sqlstore.CheckRowsAffected(fakeResult{}, store.ErrCardNotFound), store.ErrCardNotFound)
	assert.ErrorIs(t, sqlstore.CheckRowsAffected(fakeResult{}, nil), store.ErrNotFound)
	assert.Error(t, sqlstore.CheckRowsAffected(fakeResult{err: errors.New("boom")}, nil))
	assert.Error(t, sqlstore.CheckRowsAffected(nil, nil))
}
