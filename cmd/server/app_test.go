package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/arthurrguedes/backend-empresrimos/internal/config"
	"github.com/arthurrguedes/backend-empresrimos/internal/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type otherTask struct{ id uuid.UUID }

func (t otherTask) ID() uuid.UUID                 { return t.id }
func (t otherTask) Type() string                  { return "other" }
func (t otherTask) Execute(context.Context) error { return nil }

func TestTaskErrorHandler(t *testing.T) {
	t.Parallel()

	t.Run("stock adjustment failure names the book", func(t *testing.T) {
		var buf bytes.Buffer
		handler := taskErrorHandler(slog.New(slog.NewJSONHandler(&buf, nil)))

		failed := task.NewStockAdjustmentTask(nil, 42, -1, nil)
		handler(failed, errors.New("catalog unavailable"))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, float64(42), entry["book_id"])
		assert.Equal(t, float64(-1), entry["delta"])
		assert.Equal(t, failed.ID().String(), entry["task_id"])
		assert.Equal(t, "catalog unavailable", entry["error"])
	})

	t.Run("other tasks are left to the pool log", func(t *testing.T) {
		var buf bytes.Buffer
		handler := taskErrorHandler(slog.New(slog.NewJSONHandler(&buf, nil)))

		handler(otherTask{id: uuid.New()}, errors.New("boom"))

		assert.Zero(t, buf.Len())
	})
}

func testAppConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "info", ShutdownTimeoutSeconds: 1},
		Auth: config.AuthConfig{
			JWTSecret:            "thisisasecretkeythatis32charslong!!",
			TokenLifetimeMinutes: 60,
		},
		Services: config.ServicesConfig{
			ReservationsURL: "http://reservations.local:3002/reservas",
			CatalogURL:      "http://catalog.local:3001/livros",
			TimeoutSeconds:  1,
		},
		Task: config.TaskConfig{WorkerCount: 1, QueueSize: 1},
	}
}

func TestNewApplication(t *testing.T) {
	t.Parallel()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	t.Run("starts the task runner once wired", func(t *testing.T) {
		app, err := newApplication(testAppConfig(), logger, db)
		require.NoError(t, err)
		require.NotNil(t, app.loanService)

		assert.NoError(t, app.taskRunner.Submit(context.Background(), otherTask{id: uuid.New()}))

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		assert.NoError(t, app.taskRunner.Stop(ctx))
	})

	t.Run("rejects an invalid collaborator URL", func(t *testing.T) {
		cfg := testAppConfig()
		cfg.Services.CatalogURL = "not a url"

		app, err := newApplication(cfg, logger, db)
		require.Error(t, err)
		assert.Nil(t, app)
	})
}
