// Package sqlstore provides the SQL implementations of the persistence
// interfaces defined in the internal/store package. The same stores run
// against SQLite (modernc.org/sqlite) and PostgreSQL (pgx); queries are built
// with squirrel so only the placeholder format and row locking differ
// between the two.
package sqlstore
