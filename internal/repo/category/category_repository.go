package category

import (
	"context"

	"github.com/mkrupp/blogapi/internal/domain"
)

// Repository defines the interface for category persistence.
type Repository interface {
	// GetCategory returns the category and true, or nil and false if it does not exist.
	GetCategory(ctx context.Context, id int64) (*domain.Category, bool, error)

	// ListCategories returns all categories ordered by id.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// CreateCategory inserts the category and sets its ID.
	CreateCategory(ctx context.Context, category *domain.Category) error

	// UpdateCategory overwrites name and description of an existing category.
	UpdateCategory(ctx context.Context, category *domain.Category) error

	// DeleteCategory removes the category together with its posts.
	DeleteCategory(ctx context.Context, id int64) error
}

// RepositoryFactory is a function that creates a new Repository instance.
type RepositoryFactory func() (Repository, error)
