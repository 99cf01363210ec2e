package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/arthurrguedes/backend-empresrimos/internal/clock"
	"github.com/arthurrguedes/backend-empresrimos/internal/config"
	"github.com/arthurrguedes/backend-empresrimos/internal/platform/postgres"
	"github.com/arthurrguedes/backend-empresrimos/internal/platform/remote"
	"github.com/arthurrguedes/backend-empresrimos/internal/service"
	"github.com/arthurrguedes/backend-empresrimos/internal/service/auth"
	"github.com/arthurrguedes/backend-empresrimos/internal/store"
	"github.com/arthurrguedes/backend-empresrimos/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	loanStore store.LoanStore

	jwtService   auth.JWTService
	reservations *remote.ReservationClient
	catalog      *remote.CatalogClient
	loanService  service.LoanService

	taskRunner *task.TaskRunner
}

// newApplication wires stores, collaborator clients and services around an
// already opened database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	clientCfg := func(baseURL string) remote.ClientConfig {
		return remote.ClientConfig{
			BaseURL:    baseURL,
			Timeout:    cfg.Services.Timeout(),
			MaxRetries: cfg.Services.MaxRetries,
			RetryBase:  100 * time.Millisecond,
		}
	}

	app.reservations, err = remote.NewReservationClient(clientCfg(cfg.Services.ReservationsURL), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation client: %w", err)
	}
	app.catalog, err = remote.NewCatalogClient(clientCfg(cfg.Services.CatalogURL), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}

	app.taskRunner = task.NewTaskRunner(task.TaskRunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
		TaskTimeout: 4 * cfg.Services.Timeout(),
	}, logger)
	app.taskRunner.SetErrorHandler(taskErrorHandler(logger))

	app.loanStore = postgres.NewPostgresLoanStore(db, logger)
	loanRepo := service.NewLoanRepositoryAdapter(app.loanStore, db)

	app.loanService, err = service.NewLoanService(
		loanRepo,
		app.reservations,
		app.catalog,
		app.taskRunner,
		clock.NewSystem(),
		service.DefaultLoanServiceConfig(),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create loan service: %w", err)
	}

	// Started last so no earlier failure leaves worker goroutines behind.
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	logger.Info("application initialized",
		"task_workers", cfg.Task.WorkerCount,
		"task_queue_size", cfg.Task.QueueSize)
	return app, nil
}

// taskErrorHandler flags failed stock adjustments. The worker pool already
// logs every failure; this adds the book and delta needed to bring the
// catalog count back in line with the loans table by hand.
func taskErrorHandler(logger *slog.Logger) func(task.Task, error) {
	return func(t task.Task, err error) {
		stock, ok := t.(*task.StockAdjustmentTask)
		if !ok {
			return
		}
		logger.Warn("book stock out of sync, needs manual correction",
			slog.String("task_id", t.ID().String()),
			slog.Int64("book_id", stock.BookID),
			slog.Int("delta", stock.Delta),
			slog.String("error", err.Error()))
	}
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup drains background work and releases the database.
func (app *application) cleanup(ctx context.Context) {
	if app.taskRunner != nil {
		if err := app.taskRunner.Stop(ctx); err != nil {
			app.logger.Warn("task runner did not drain before shutdown", "error", err)
		}
	}

	if app.db != nil {
		closeDB(app.db, app.logger)
	}

	app.logger.Info("application shutdown completed")
}
