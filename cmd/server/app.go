package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/secondchance-api/internal/config"
	"github.com/phrazzld/secondchance-api/internal/events"
	"github.com/phrazzld/secondchance-api/internal/platform/assets"
	"github.com/phrazzld/secondchance-api/internal/platform/postgres"
	"github.com/phrazzld/secondchance-api/internal/platform/sqlite"
	"github.com/phrazzld/secondchance-api/internal/platform/tracing"
	"github.com/phrazzld/secondchance-api/internal/service"
	"github.com/phrazzld/secondchance-api/internal/service/auth"
	"github.com/phrazzld/secondchance-api/internal/store"
	"github.com/phrazzld/secondchance-api/internal/task"
)

// application holds all the core components of the running service.
type application struct {
	config          *config.Config
	logger          *slog.Logger
	db              *sql.DB
	jwtService      auth.JWTService
	assetStore      assets.Store
	accountService  service.AccountService
	itemService     service.ItemService
	taskQueue       *task.TaskQueue
	workerPool      *task.WorkerPool
	shutdownTracing tracing.ShutdownFunc
}

// setupTracing is replaced in tests.
var setupTracing = tracing.Setup

// newApplication wires stores, services and background workers around an open
// database. The worker pool is started before returning. On error the tracer
// provider is shut down again.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	kind dialect,
) (_ *application, err error) {
	shutdownTracing, err := setupTracing(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if shutdownErr := shutdownTracing(ctx); shutdownErr != nil {
			logger.Warn("failed to shut down tracing", "error", shutdownErr)
		}
	}()

	accountStore, itemStore := newStores(db, kind, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create jwt service: %w", err)
	}

	assetStore, err := assets.New(ctx, cfg.Assets, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset store: %w", err)
	}

	taskQueue := task.NewTaskQueue(cfg.Tasks.QueueSize, logger)
	poolConfig := task.DefaultWorkerPoolConfig()
	poolConfig.WorkerCount = cfg.Tasks.WorkerCount
	workerPool := task.NewWorkerPool(taskQueue, poolConfig, logger)
	workerPool.SetErrorHandler(func(t task.Task, err error) {
		logger.Error("background task failed",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", err)
	})

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(task.NewAssetCleanupEventHandler(taskQueue, assetStore, logger))

	accountService, err := service.NewAccountService(service.AccountServiceConfig{
		Store:        accountStore,
		Passwords:    auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Tokens:       jwtService,
		QueryTimeout: cfg.Database.QueryTimeout,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	itemService, err := service.NewItemService(service.ItemServiceConfig{
		Store:        itemStore,
		Assets:       assetStore,
		Events:       emitter,
		QueryTimeout: cfg.Database.QueryTimeout,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create item service: %w", err)
	}

	workerPool.Start()

	return &application{
		config:          cfg,
		logger:          logger,
		db:              db,
		jwtService:      jwtService,
		assetStore:      assetStore,
		accountService:  accountService,
		itemService:     itemService,
		taskQueue:       taskQueue,
		workerPool:      workerPool,
		shutdownTracing: shutdownTracing,
	}, nil
}

func newStores(db *sql.DB, kind dialect, logger *slog.Logger) (store.AccountStore, store.ItemStore) {
	if kind == dialectSQLite {
		return sqlite.NewAccountStore(db, logger), sqlite.NewItemStore(db, logger)
	}
	return postgres.NewPostgresAccountStore(db, logger), postgres.NewPostgresItemStore(db, logger)
}

// close drains background work, flushes traces and closes the database.
// It runs every step and joins their errors.
func (app *application) close(ctx context.Context) error {
	var errs []error

	app.taskQueue.Close()
	if err := app.workerPool.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("worker pool: %w", err))
	}
	if app.shutdownTracing != nil {
		if err := app.shutdownTracing(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracing: %w", err))
		}
	}
	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}

	return errors.Join(errs...)
}
