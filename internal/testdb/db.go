package testdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/secondchance-api/internal/ciutil"
	"github.com/phrazzld/secondchance-api/internal/platform/postgres"
	"github.com/phrazzld/secondchance-api/internal/platform/sqlite"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// GetTestDatabaseURL returns the PostgreSQL URL for integration tests.
// It checks SECONDCHANCE_TEST_DATABASE_URL and DATABASE_URL in that order.
func GetTestDatabaseURL() string {
	return ciutil.GetTestDatabaseURL(slog.Default())
}

// GetTestDBWithT returns a migrated PostgreSQL connection for testing.
// The test is skipped if no database URL is set. Both tables are emptied
// before the connection is returned and the pool is closed on cleanup.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("SECONDCHANCE_TEST_DATABASE_URL or DATABASE_URL not set - skipping integration test")
	}
	t.Logf("using test database %s (ci=%t)", ciutil.MaskSensitiveValue(dbURL), ciutil.IsCI())

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open database connection")

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Database ping failed")

	provider, err := postgres.NewMigrationProvider(db)
	require.NoError(t, err)
	_, err = provider.Up(ctx)
	require.NoError(t, err, "Failed to run migrations")

	_, err = db.ExecContext(ctx, `TRUNCATE items, accounts`)
	require.NoError(t, err, "Failed to reset tables")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	return db
}

// NewSQLiteDB returns a migrated, private in-memory SQLite database.
// Every call gets its own database, closed when the test ends.
func NewSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sqlite.Open(dsn)
	require.NoError(t, err, "Failed to open sqlite database")

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	provider, err := sqlite.NewMigrationProvider(db)
	require.NoError(t, err)
	_, err = provider.Up(ctx)
	require.NoError(t, err, "Failed to run migrations")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close database connection: %v", err)
		}
	})

	return db
}

// WithTx runs fn within a transaction that is always rolled back afterwards,
// so the test leaves no rows behind.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
