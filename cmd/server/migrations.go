package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/arthurrguedes/backend-empresrimos/internal/platform/postgres"
)

// handleMigrations runs a single goose command against the embedded schema.
func handleMigrations(ctx context.Context, db *sql.DB, migrateCmd string, logger *slog.Logger) error {
	logger.Info("executing migrations", "command", migrateCmd)

	if err := postgres.Migrate(ctx, db, migrateCmd, logger); err != nil {
		return fmt.Errorf("migration %q failed: %w", migrateCmd, err)
	}

	logger.Info("migrations finished", "command", migrateCmd)
	return nil
}
