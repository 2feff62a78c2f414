package comment

import (
	"context"

	"github.com/mkrupp/blogapi/internal/domain"
)

// Repository defines the interface for comment persistence.
type Repository interface {
	// GetComment returns the comment and true, or nil and false if it does not exist.
	GetComment(ctx context.Context, id int64) (*domain.Comment, bool, error)

	// ListCommentsByPost returns the comments of a post ordered by id.
	ListCommentsByPost(ctx context.Context, postID int64) ([]domain.Comment, error)

	// CreateComment inserts the comment and sets its ID.
	CreateComment(ctx context.Context, comment *domain.Comment) error

	// UpdateComment overwrites name, email and body. The parent post is never changed.
	UpdateComment(ctx context.Context, comment *domain.Comment) error

	// DeleteComment removes the comment.
	DeleteComment(ctx context.Context, id int64) error
}

// RepositoryFactory is a function that creates a new Repository instance.
type RepositoryFactory func() (Repository, error)
