// Package main implements the entry point for the SecondChance API server,
// the backend of a secondhand marketplace: accounts with token sessions and
// a catalog of items with optional images.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run database migrations and exit: up, down or status")
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		slog.Error("server exited with error", "error", err)
		fmt.Fprintf(os.Stderr, "secondchance-api: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration and either executes a migration command or serves
// HTTP until SIGINT or SIGTERM.
func run(migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, dialect, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		return runMigrations(ctx, db, dialect, migrateCmd, logger)
	}

	if cfg.Database.AutoMigrate {
		if err := runMigrations(ctx, db, dialect, "up", logger); err != nil {
			_ = db.Close()
			return err
		}
	}

	app, err := newApplication(ctx, cfg, logger, db, dialect)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
