package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/mkrupp/blogapi/internal/repo/models"
)

func init() {
	Migrations.MustRegister(upCreateUsers, downCreateUsers)
}

func upCreateUsers(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}

	return nil
}

func downCreateUsers(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewDropTable().
		Model((*models.User)(nil)).
		IfExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("drop users table: %w", err)
	}

	return nil
}
