// Package testdb provides database helpers for tests: a migrated in-memory
// SQLite database for fast store and end-to-end tests, and a migrated
// PostgreSQL connection for integration tests that is skipped when no test
// database URL is configured.
package testdb
