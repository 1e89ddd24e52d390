// Package testdb opens migrated databases for tests.
//
// Open returns a private in-memory SQLite database, so tests can run in
// parallel without any external service. OpenPostgres connects to the server
// named by RECODE_TEST_DATABASE_URL and skips the test when it is unset.
package testdb
