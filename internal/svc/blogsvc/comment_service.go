package blogsvc

import (
	"context"
	"fmt"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/infra/logging"
	"github.com/mkrupp/blogapi/internal/repo/comment"
	"github.com/mkrupp/blogapi/internal/repo/post"
)

// CommentService manages the comments of posts.
// Single comment operations go through EnsureBelongs.
type CommentService struct {
	PostRepo    post.Repository
	CommentRepo comment.Repository
	Log         logging.Logger
}

// NewCommentService creates a new CommentService with the given repository factories.
func NewCommentService(
	postFactory post.RepositoryFactory,
	commentFactory comment.RepositoryFactory,
) (*CommentService, error) {
	postRepo, err := postFactory()
	if err != nil {
		return nil, fmt.Errorf("new post repo: %w", err)
	}

	commentRepo, err := commentFactory()
	if err != nil {
		return nil, fmt.Errorf("new comment repo: %w", err)
	}

	return &CommentService{
		PostRepo:    postRepo,
		CommentRepo: commentRepo,
		Log:         logging.GetLogger("svc.blogsvc.comment_service"),
	}, nil
}

// CreateComment attaches c to the post postID. Any post id carried by c is ignored.
func (s *CommentService) CreateComment(ctx context.Context, postID int64, c domain.Comment) (_ *domain.Comment, err error) {
	log := s.Log.With(logging.Group("comment", "post", postID, "email", c.Email))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "create comment failed", "error", err)
		} else {
			log.DebugContext(ctx, "comment created", "id", c.ID)
		}
	}()

	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	c.ID = 0
	c.PostID = postID

	if err := s.CommentRepo.CreateComment(ctx, &c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	return &c, nil
}

// ListComments returns the comments of the post postID.
func (s *CommentService) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.CommentRepo.ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	return comments, nil
}

// GetComment returns the comment commentID of the post postID.
func (s *CommentService) GetComment(ctx context.Context, postID, commentID int64) (*domain.Comment, error) {
	return EnsureBelongs(ctx, s.PostRepo, s.CommentRepo, postID, commentID)
}

// UpdateComment overwrites name, email and body of the comment commentID of the post postID.
func (s *CommentService) UpdateComment(
	ctx context.Context,
	postID, commentID int64,
	c domain.Comment,
) (_ *domain.Comment, err error) {
	log := s.Log.With(logging.Group("comment", "post", postID, "id", commentID))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "update comment failed", "error", err)
		} else {
			log.DebugContext(ctx, "comment updated")
		}
	}()

	existing, err := EnsureBelongs(ctx, s.PostRepo, s.CommentRepo, postID, commentID)
	if err != nil {
		return nil, err
	}

	existing.Name = c.Name
	existing.Email = c.Email
	existing.Body = c.Body

	if err := s.CommentRepo.UpdateComment(ctx, existing); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	return existing, nil
}

// DeleteComment removes the comment commentID of the post postID.
func (s *CommentService) DeleteComment(ctx context.Context, postID, commentID int64) (err error) {
	log := s.Log.With(logging.Group("comment", "post", postID, "id", commentID))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "delete comment failed", "error", err)
		} else {
			log.DebugContext(ctx, "comment deleted")
		}
	}()

	if _, err := EnsureBelongs(ctx, s.PostRepo, s.CommentRepo, postID, commentID); err != nil {
		return err
	}

	if err := s.CommentRepo.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	return nil
}

func (s *CommentService) requirePost(ctx context.Context, id int64) error {
	_, ok, err := s.PostRepo.GetPost(ctx, id)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	} else if !ok {
		return domain.NewResourceNotFoundError(domain.KindPost, id)
	}

	return nil
}
