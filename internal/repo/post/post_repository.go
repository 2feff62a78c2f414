package post

import (
	"context"

	"github.com/mkrupp/blogapi/internal/domain"
)

// Repository defines the interface for post persistence.
// Posts are returned together with their comments.
type Repository interface {
	// GetPost returns the post and true, or nil and false if it does not exist.
	GetPost(ctx context.Context, id int64) (*domain.Post, bool, error)

	// ListPosts returns one page of posts sorted by page.SortBy.
	// Sort fields other than the known post fields are handed to the database as column names.
	ListPosts(ctx context.Context, page domain.PageRequest) (domain.PagedResult[domain.Post], error)

	// ListPostsByCategory returns all posts filed under the category, ordered by id.
	ListPostsByCategory(ctx context.Context, categoryID int64) ([]domain.Post, error)

	// CreatePost inserts the post and sets its ID.
	CreatePost(ctx context.Context, post *domain.Post) error

	// UpdatePost overwrites the fields of an existing post.
	UpdatePost(ctx context.Context, post *domain.Post) error

	// DeletePost removes the post together with its comments.
	DeletePost(ctx context.Context, id int64) error
}

// RepositoryFactory is a function that creates a new Repository instance.
type RepositoryFactory func() (Repository, error)
