package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/infra/database"
	"github.com/mkrupp/blogapi/internal/repo/migrations"
	"github.com/mkrupp/blogapi/internal/repo/user"
	"github.com/mkrupp/blogapi/internal/svc/authsvc"
)

var errMissingFlag = errors.New("missing required flag")

func newUserCmd(cfg *Config) *cobra.Command {
	var (
		name, username, email, password string
		admin                           bool
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Long:  `Creates an account able to log in. With --admin the account may change posts and categories.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for flag, v := range map[string]string{"username": username, "email": email, "password": password} {
				if v == "" {
					return fmt.Errorf("%w: --%s", errMissingFlag, flag)
				}
			}

			if name == "" {
				name = username
			}

			roles := []domain.Role{domain.RoleUser}
			if admin {
				roles = append(roles, domain.RoleAdmin)
			}

			ctx := cmd.Context()

			db, err := database.Open(ctx, cfg.DB)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			if cfg.DB.AutoMigrate {
				if err := migrations.Apply(ctx, db); err != nil {
					return fmt.Errorf("apply migrations: %w", err)
				}
			}

			authSvc, err := authsvc.NewAuthService(user.BunUserRepositoryFactory(db), cfg.Auth)
			if err != nil {
				return fmt.Errorf("new auth service: %w", err)
			}

			u, err := authSvc.RegisterUser(ctx, name, username, email, password, roles...)
			if err != nil {
				return fmt.Errorf("register user: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d) with roles %v\n", u.Username, u.ID, u.Roles)

			return nil
		},
	}

	createCmd.Flags().StringVar(&name, "name", "", "display name (defaults to the username)")
	createCmd.Flags().StringVar(&username, "username", "", "login username")
	createCmd.Flags().StringVar(&email, "email", "", "login email")
	createCmd.Flags().StringVar(&password, "password", "", "password")
	createCmd.Flags().BoolVar(&admin, "admin", false, "grant the ADMIN role")

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Account management commands",
	}
	userCmd.AddCommand(createCmd)

	return userCmd
}
