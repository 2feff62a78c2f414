package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkrupp/blogapi/internal/infra/database"
	"github.com/mkrupp/blogapi/internal/repo/migrations"
)

func newDBCmd(cfg *Config) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	dbCmd.AddCommand(
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := database.Open(cmd.Context(), cfg.DB)
				if err != nil {
					return fmt.Errorf("open database: %w", err)
				}
				defer db.Close()

				return migrations.Apply(cmd.Context(), db)
			},
		},
		&cobra.Command{
			Use:   "rollback",
			Short: "Roll back the last migration group",
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, err := database.Open(cmd.Context(), cfg.DB)
				if err != nil {
					return fmt.Errorf("open database: %w", err)
				}
				defer db.Close()

				return migrations.Rollback(cmd.Context(), db)
			},
		},
	)

	return dbCmd
}
