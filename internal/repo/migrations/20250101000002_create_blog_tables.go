package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/mkrupp/blogapi/internal/repo/models"
)

func init() {
	Migrations.MustRegister(upCreateBlogTables, downCreateBlogTables)
}

func upCreateBlogTables(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewCreateTable().
			Model((*models.Category)(nil)).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create categories table: %w", err)
		}

		if _, err := tx.NewCreateTable().
			Model((*models.Post)(nil)).
			IfNotExists().
			ForeignKey(`(category_id) REFERENCES categories(id) ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return fmt.Errorf("create posts table: %w", err)
		}

		if _, err := tx.NewCreateTable().
			Model((*models.Comment)(nil)).
			IfNotExists().
			ForeignKey(`(post_id) REFERENCES posts(id) ON DELETE CASCADE`).
			Exec(ctx); err != nil {
			return fmt.Errorf("create comments table: %w", err)
		}

		for _, stmt := range []string{
			`CREATE INDEX IF NOT EXISTS idx_posts_category_id ON posts(category_id)`,
			`CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id)`,
		} {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("create index: %w", err)
			}
		}

		return nil
	})
}

func downCreateBlogTables(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []any{
			(*models.Comment)(nil),
			(*models.Post)(nil),
			(*models.Category)(nil),
		} {
			if _, err := tx.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return fmt.Errorf("drop table: %w", err)
			}
		}

		return nil
	})
}
