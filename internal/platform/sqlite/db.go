package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/phrazzld/secondchance-api/internal/store"
	"github.com/pressly/goose/v3"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Open opens the SQLite database described by dsn, for example
// "file:dev.db" or "file:test?mode=memory&cache=shared".
// The pool is limited to a single connection: SQLite serialises writers
// anyway and a shared in-memory database must not be locked against itself.
func Open(dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite dsn is required")
	}
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// Migrations returns the embedded migration files.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return sub
}

// NewMigrationProvider returns a goose provider for the SQLite schema.
func NewMigrationProvider(db *sql.DB) (*goose.Provider, error) {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, Migrations())
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return p, nil
}

func errorCode(err error) (int, bool) {
	var liteErr *msqlite.Error
	if !errors.As(err, &liteErr) {
		return 0, false
	}
	return liteErr.Code(), true
}

// IsUniqueViolation reports whether err is a UNIQUE constraint failure.
func IsUniqueViolation(err error) bool {
	code, ok := errorCode(err)
	return ok && code == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE
}

// IsPrimaryKeyViolation reports whether err is a PRIMARY KEY constraint failure.
func IsPrimaryKeyViolation(err error) bool {
	code, ok := errorCode(err)
	return ok && code == sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY
}

// MapError maps a database error to the matching store error.
// notFound is used for sql.ErrNoRows.
func MapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		if notFound == nil {
			notFound = store.ErrNotFound
		}
		return notFound
	}
	if IsUniqueViolation(err) || IsPrimaryKeyViolation(err) {
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}
	if isBusy(err) || store.IsUnavailableError(err) {
		return fmt.Errorf("%w: %w", store.ErrUnavailable, err)
	}
	return err
}

// isBusy matches SQLITE_BUSY and its extended codes.
func isBusy(err error) bool {
	code, ok := errorCode(err)
	return ok && code&0xff == sqlite3lib.SQLITE_BUSY
}

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
