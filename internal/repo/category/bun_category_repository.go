package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/repo/models"
)

// BunCategoryRepository implements Repository on top of bun.
type BunCategoryRepository struct {
	db bun.IDB
}

var _ Repository = (*BunCategoryRepository)(nil)

// BunCategoryRepositoryFactory returns a RepositoryFactory sharing db.
func BunCategoryRepositoryFactory(db bun.IDB) RepositoryFactory {
	return func() (Repository, error) {
		return NewBunCategoryRepository(db), nil
	}
}

// NewBunCategoryRepository creates a repository backed by db.
func NewBunCategoryRepository(db bun.IDB) *BunCategoryRepository {
	return &BunCategoryRepository{db: db}
}

// GetCategory implements Repository.GetCategory.
func (r *BunCategoryRepository) GetCategory(ctx context.Context, id int64) (*domain.Category, bool, error) {
	row := new(models.Category)

	err := r.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("select category: %w", err)
	}

	return row.ToDomain(), true, nil
}

// ListCategories implements Repository.ListCategories.
func (r *BunCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var rows []*models.Category

	if err := r.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, *row.ToDomain())
	}

	return categories, nil
}

// CreateCategory implements Repository.CreateCategory.
func (r *BunCategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	row := models.CategoryFromDomain(*category)
	row.ID = 0

	if _, err := r.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}

	category.ID = row.ID

	return nil
}

// UpdateCategory implements Repository.UpdateCategory.
func (r *BunCategoryRepository) UpdateCategory(ctx context.Context, category *domain.Category) error {
	row := models.CategoryFromDomain(*category)

	res, err := r.db.NewUpdate().Model(row).Column("name", "description").WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	return requireAffected(res, category.ID)
}

// DeleteCategory implements Repository.DeleteCategory.
func (r *BunCategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*models.Category)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if n == 0 {
		return domain.NewResourceNotFoundError(domain.KindCategory, id)
	}

	return nil
}
