package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/secondchance-api/internal/ciutil"
	"github.com/phrazzld/secondchance-api/internal/config"
	"github.com/phrazzld/secondchance-api/internal/platform/sqlite"
)

// dialect names the database engine behind the connection pool.
type dialect string

const (
	dialectPostgres dialect = "postgres"
	dialectSQLite   dialect = "sqlite"
)

const sqlitePrefix = "sqlite:"

// parseDatabaseURL picks the engine from the URL scheme. SQLite URLs are
// "sqlite:" followed by a modernc DSN such as "file:dev.db".
func parseDatabaseURL(url string) (dialect, string, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return dialectPostgres, url, nil
	case strings.HasPrefix(url, sqlitePrefix):
		dsn := strings.TrimPrefix(url, sqlitePrefix)
		if dsn == "" {
			return "", "", fmt.Errorf("sqlite database url has no dsn")
		}
		return dialectSQLite, dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database url scheme; use postgres://, postgresql:// or sqlite:")
	}
}

// setupAppDatabase establishes a connection to the database and configures connection pools.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, dialect, error) {
	kind, dsn, err := parseDatabaseURL(cfg.Database.URL)
	if err != nil {
		return nil, "", err
	}

	var db *sql.DB
	switch kind {
	case dialectSQLite:
		db, err = sqlite.Open(dsn)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open sqlite database: %w", err)
		}
	default:
		db, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open database connection: %w", err)
		}
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			_ = db.Close()
			return nil, "", fmt.Errorf("failed to ping database: %w", err)
		}
	}

	logger.Info("database connection established",
		"dialect", string(kind),
		"url", ciutil.MaskSensitiveValue(cfg.Database.URL))
	return db, kind, nil
}
