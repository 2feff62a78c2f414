// Package migrations holds the versioned schema of the blog database.
package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/mkrupp/blogapi/internal/infra/logging"
)

// Migrations is the registry every migration file adds itself to.
//
//nolint:gochecknoglobals
var Migrations = migrate.NewMigrations()

// Apply runs all pending migrations under the migration lock.
func Apply(ctx context.Context, db *bun.DB) (err error) {
	log := logging.GetLogger("repo.migrations")

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "apply migrations failed", "error", err)
		}
	}()

	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}

	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("lock migrations: %w", err)
	}

	defer func() {
		if err := migrator.Unlock(ctx); err != nil {
			log.WarnContext(ctx, "unlock migrations failed", "error", err)
		}
	}()

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if group.IsZero() {
		log.DebugContext(ctx, "no new migrations")
	} else {
		log.InfoContext(ctx, "migrations applied", logging.Group("group",
			"id", group.ID,
			"migrations", group.Migrations.String(),
		))
	}

	return nil
}

// Rollback reverts the last applied migration group.
func Rollback(ctx context.Context, db *bun.DB) error {
	log := logging.GetLogger("repo.migrations")
	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("lock migrations: %w", err)
	}

	defer func() {
		if err := migrator.Unlock(ctx); err != nil {
			log.WarnContext(ctx, "unlock migrations failed", "error", err)
		}
	}()

	group, err := migrator.Rollback(ctx)
	if err != nil {
		return fmt.Errorf("rollback: %w", err)
	}

	log.InfoContext(ctx, "migrations rolled back", "group", group.ID)

	return nil
}
