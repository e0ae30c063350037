// Package store defines the persistence contracts for accounts and catalog
// items, the sentinel errors every implementation reports, and a small
// transaction helper shared by the SQL-backed implementations in
// internal/platform.
package store
