// Package sqlite provides embedded SQLite implementations of the account and
// item stores defined in internal/store, backed by the pure-Go
// modernc.org/sqlite driver. It serves local development and the test suite.
package sqlite
