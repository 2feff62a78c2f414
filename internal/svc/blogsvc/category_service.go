package blogsvc

import (
	"context"
	"fmt"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/infra/logging"
	"github.com/mkrupp/blogapi/internal/repo/category"
)

// CategoryService manages categories.
type CategoryService struct {
	CategoryRepo category.Repository
	Log          logging.Logger
}

// NewCategoryService creates a new CategoryService with the given repository factory.
func NewCategoryService(categoryFactory category.RepositoryFactory) (*CategoryService, error) {
	categoryRepo, err := categoryFactory()
	if err != nil {
		return nil, fmt.Errorf("new category repo: %w", err)
	}

	return &CategoryService{
		CategoryRepo: categoryRepo,
		Log:          logging.GetLogger("svc.blogsvc.category_service"),
	}, nil
}

// AddCategory stores c and returns the stored category.
func (s *CategoryService) AddCategory(ctx context.Context, c domain.Category) (_ *domain.Category, err error) {
	defer func() {
		if err != nil {
			s.Log.ErrorContext(ctx, "add category failed", "name", c.Name, "error", err)
		} else {
			s.Log.DebugContext(ctx, "category added", "id", c.ID)
		}
	}()

	c.ID = 0

	if err := s.CategoryRepo.CreateCategory(ctx, &c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	return &c, nil
}

// GetCategory returns the category id.
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	c, ok, err := s.CategoryRepo.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	} else if !ok {
		return nil, domain.NewResourceNotFoundError(domain.KindCategory, id)
	}

	return c, nil
}

// ListCategories returns all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.CategoryRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

// UpdateCategory overwrites name and description of the category id.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, c domain.Category) (_ *domain.Category, err error) {
	defer func() {
		if err != nil {
			s.Log.ErrorContext(ctx, "update category failed", "id", id, "error", err)
		} else {
			s.Log.DebugContext(ctx, "category updated", "id", id)
		}
	}()

	existing, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = c.Name
	existing.Description = c.Description

	if err := s.CategoryRepo.UpdateCategory(ctx, existing); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	return existing, nil
}

// DeleteCategory removes the category id. Posts filed under it are removed as well.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) (err error) {
	defer func() {
		if err != nil {
			s.Log.ErrorContext(ctx, "delete category failed", "id", id, "error", err)
		} else {
			s.Log.DebugContext(ctx, "category deleted", "id", id)
		}
	}()

	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}

	if err := s.CategoryRepo.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	return nil
}
