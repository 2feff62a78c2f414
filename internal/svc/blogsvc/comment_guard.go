package blogsvc

import (
	"context"
	"fmt"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/repo/comment"
	"github.com/mkrupp/blogapi/internal/repo/post"
)

// EnsureBelongs loads the comment commentID and checks that it is attached to the post postID.
//
// The post is looked up first, so a missing post is reported even when the comment is missing too.
// Failures are a *domain.ResourceNotFoundError for the post or the comment, or domain.ErrOwnershipMismatch.
func EnsureBelongs(
	ctx context.Context,
	posts post.Repository,
	comments comment.Repository,
	postID, commentID int64,
) (*domain.Comment, error) {
	_, ok, err := posts.GetPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	} else if !ok {
		return nil, domain.NewResourceNotFoundError(domain.KindPost, postID)
	}

	c, ok, err := comments.GetComment(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	} else if !ok {
		return nil, domain.NewResourceNotFoundError(domain.KindComment, commentID)
	}

	if c.PostID != postID {
		return nil, fmt.Errorf("%w: comment %d is attached to post %d", domain.ErrOwnershipMismatch, commentID, c.PostID)
	}

	return c, nil
}
