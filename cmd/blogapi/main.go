package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mkrupp/blogapi/internal/infra/config"
	"github.com/mkrupp/blogapi/internal/infra/database"
	"github.com/mkrupp/blogapi/internal/infra/logging"
	http_ "github.com/mkrupp/blogapi/internal/infra/transport/http"
	"github.com/mkrupp/blogapi/internal/svc/authsvc"
	"github.com/mkrupp/blogapi/internal/svc/authsvc/authclient"
	"github.com/mkrupp/blogapi/internal/svc/blogsvc"
)

const (
	appName      = "blogapi"
	configPrefix = "BLOG_API"
)

type Config struct {
	config.EnvConfig

	Log        logging.LoggerConfig        `envPrefix:"LOG_"`
	Auth       authsvc.AuthConfig          `envPrefix:"AUTH_"`
	HTTP       http_.HTTPTransportConfig   `envPrefix:"HTTP_"`
	DB         database.DatabaseConfig     `envPrefix:"DB_"`
	Blog       blogsvc.BlogConfig          `envPrefix:"BLOG_"`
	AuthClient authclient.HTTPClientConfig `envPrefix:"AUTH_CLIENT_"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Blog content API",
		Long:          `Serves posts, comments and categories over HTTP. Mutations of posts and categories require an ADMIN credential.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
				return fmt.Errorf("parse config: %w", err)
			}

			if err := logging.Configure(ctx, cfg.Log, appName); err != nil {
				return fmt.Errorf("configure logging: %w", err)
			}

			return nil
		},
	}

	rootCmd.AddCommand(
		newServeCmd(&cfg),
		newDBCmd(&cfg),
		newUserCmd(&cfg),
		newTokenCmd(&cfg),
	)

	return rootCmd
}
