package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkrupp/blogapi/internal/infra/database"
	"github.com/mkrupp/blogapi/internal/infra/logging"
	http_ "github.com/mkrupp/blogapi/internal/infra/transport/http"
	"github.com/mkrupp/blogapi/internal/repo/category"
	"github.com/mkrupp/blogapi/internal/repo/comment"
	"github.com/mkrupp/blogapi/internal/repo/migrations"
	"github.com/mkrupp/blogapi/internal/repo/post"
	"github.com/mkrupp/blogapi/internal/repo/user"
	"github.com/mkrupp/blogapi/internal/svc/authsvc"
	"github.com/mkrupp/blogapi/internal/svc/authsvc/authclient"
	"github.com/mkrupp/blogapi/internal/svc/blogsvc"
)

func newServeCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Starts the HTTP server with the auth and blog endpoints.
Pending migrations are applied first unless DB_AUTO_MIGRATE is false.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *cfg)
		},
	}
}

func serve(ctx context.Context, cfg Config) (err error) {
	log := logging.GetLogger("cmd.blogapi.serve")

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)
		} else {
			log.InfoContext(ctx, "shutdown")
		}
	}()

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

	var verifier authclient.AuthClient = authSvc
	if cfg.AuthClient.AuthURL != "" {
		log.InfoContext(ctx, "verifying credentials remotely", "url", cfg.AuthClient.AuthURL)

		verifier = authclient.NewHTTPClient(cfg.AuthClient, nil)
	}

	postSvc, err := blogsvc.NewPostService(post.BunPostRepositoryFactory(db), category.BunCategoryRepositoryFactory(db), cfg.Blog)
	if err != nil {
		return fmt.Errorf("new post service: %w", err)
	}

	commentSvc, err := blogsvc.NewCommentService(post.BunPostRepositoryFactory(db), comment.BunCommentRepositoryFactory(db))
	if err != nil {
		return fmt.Errorf("new comment service: %w", err)
	}

	categorySvc, err := blogsvc.NewCategoryService(category.BunCategoryRepositoryFactory(db))
	if err != nil {
		return fmt.Errorf("new category service: %w", err)
	}

	router := http_.NewRouter(cfg.HTTP,
		authsvc.NewHTTPTransport(authSvc),
		blogsvc.NewHTTPTransport(cfg.Blog, postSvc, commentSvc, categorySvc, verifier),
	)

	if err := http_.ListenAndServe(ctx, router, cfg.HTTP); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
