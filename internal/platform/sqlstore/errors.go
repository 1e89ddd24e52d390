package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/recode/internal/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// constraint classes shared by both databases
type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintUnique
	constraintForeignKey
	constraintCheck
	constraintNotNull
)

func classify(err error) constraintKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return constraintUnique
		case foreignKeyViolationCode:
			return constraintForeignKey
		case checkViolationCode:
			return constraintCheck
		case notNullViolationCode:
			return constraintNotNull
		}
		return constraintNone
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return constraintUnique
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return constraintForeignKey
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return constraintCheck
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return constraintNotNull
		}
	}
	return constraintNone
}

// MapError maps a database error to the matching store error, wrapping the
// original so it stays available for logging.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	switch classify(err) {
	case constraintUnique:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case constraintForeignKey:
		return fmt.Errorf("%w: foreign key violation: %v", store.ErrInvalidEntity, err)
	case constraintCheck:
		return fmt.Errorf("%w: check constraint violation: %v", store.ErrInvalidEntity, err)
	case constraintNotNull:
		return fmt.Errorf("%w: not null violation: %v", store.ErrInvalidEntity, err)
	}
	return err
}

// IsUniqueViolation reports whether err is a unique or primary key violation.
func IsUniqueViolation(err error) bool {
	return classify(err) == constraintUnique
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	return classify(err) == constraintForeignKey
}

// IsCheckConstraintViolation reports whether err is a CHECK violation.
func IsCheckConstraintViolation(err error) bool {
	return classify(err) == constraintCheck
}

// CheckRowsAffected returns notFound when result touched no rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		if notFound == nil {
			return store.ErrNotFound
		}
		return notFound
	}
	return nil
}
