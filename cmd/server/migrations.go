package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/secondchance-api/internal/platform/postgres"
	"github.com/phrazzld/secondchance-api/internal/platform/sqlite"
	"github.com/pressly/goose/v3"
)

func newMigrationProvider(db *sql.DB, kind dialect) (*goose.Provider, error) {
	if kind == dialectSQLite {
		return sqlite.NewMigrationProvider(db)
	}
	return postgres.NewMigrationProvider(db)
}

// runMigrations executes one of the supported migration commands:
// up applies all pending migrations, down rolls back the latest one and
// status logs the state of every migration.
func runMigrations(ctx context.Context, db *sql.DB, kind dialect, command string, logger *slog.Logger) error {
	provider, err := newMigrationProvider(db, kind)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		for _, r := range results {
			logger.Info("migration applied",
				"version", r.Source.Version,
				"path", r.Source.Path,
				"duration", r.Duration)
		}
		if len(results) == 0 {
			logger.Info("database schema is up to date")
		}
		return nil

	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		logger.Info("migration rolled back",
			"version", result.Source.Version,
			"path", result.Source.Path)
		return nil

	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		for _, s := range statuses {
			logger.Info("migration status",
				"version", s.Source.Version,
				"path", s.Source.Path,
				"state", string(s.State),
				"applied_at", s.AppliedAt)
		}
		return nil

	default:
		return fmt.Errorf("unknown migrate command %q: use up, down or status", command)
	}
}
