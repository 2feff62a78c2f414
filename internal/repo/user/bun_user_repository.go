package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/infra/database"
	"github.com/mkrupp/blogapi/internal/infra/logging"
	"github.com/mkrupp/blogapi/internal/repo/models"
)

// BunUserRepository implements Repository on top of bun.
type BunUserRepository struct {
	db  bun.IDB
	log logging.Logger
}

var _ Repository = (*BunUserRepository)(nil)

// BunUserRepositoryFactory returns a RepositoryFactory sharing db.
func BunUserRepositoryFactory(db bun.IDB) RepositoryFactory {
	return func() (Repository, error) {
		return NewBunUserRepository(db), nil
	}
}

// NewBunUserRepository creates a repository backed by db.
func NewBunUserRepository(db bun.IDB) *BunUserRepository {
	return &BunUserRepository{
		db:  db,
		log: logging.GetLogger("repo.user.bun_user_repository"),
	}
}

// CreateUser implements Repository.CreateUser.
func (r *BunUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	row := models.UserFromDomain(*user)

	if _, err := r.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		if database.IsUniqueViolation(err) {
			err = errors.Join(domain.ErrUserAlreadyExists, err)
		}

		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = row.ID
	user.CreatedAt = row.CreatedAt.Unix()

	r.log.DebugContext(ctx, "user inserted", logging.Group("user", "id", row.ID))

	return nil
}

// GetUserByUsernameOrEmail implements Repository.GetUserByUsernameOrEmail.
func (r *BunUserRepository) GetUserByUsernameOrEmail(
	ctx context.Context,
	login string,
) (*domain.User, bool, error) {
	row := new(models.User)

	err := r.db.NewSelect().
		Model(row).
		Where("username = ?", login).
		WhereOr("email = ?", login).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("select user: %w", err)
	}

	return row.ToDomain(), true, nil
}
