// Package postgres provides the PostgreSQL implementations of the account and
// item stores defined in internal/store, together with the embedded goose
// migrations that create their schema. Queries run through database/sql on
// the pgx stdlib driver.
package postgres
