package blogsvc

import (
	"context"
	"fmt"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/infra/logging"
	"github.com/mkrupp/blogapi/internal/repo/category"
	"github.com/mkrupp/blogapi/internal/repo/post"
)

// PostService manages posts. Every post is filed under an existing category.
type PostService struct {
	Config       BlogConfig
	PostRepo     post.Repository
	CategoryRepo category.Repository
	Log          logging.Logger
}

// NewPostService creates a new PostService with the given repository factories and configuration.
func NewPostService(
	postFactory post.RepositoryFactory,
	categoryFactory category.RepositoryFactory,
	cfg BlogConfig,
) (*PostService, error) {
	postRepo, err := postFactory()
	if err != nil {
		return nil, fmt.Errorf("new post repo: %w", err)
	}

	categoryRepo, err := categoryFactory()
	if err != nil {
		return nil, fmt.Errorf("new category repo: %w", err)
	}

	return &PostService{
		Config:       cfg,
		PostRepo:     postRepo,
		CategoryRepo: categoryRepo,
		Log:          logging.GetLogger("svc.blogsvc.post_service"),
	}, nil
}

// CreatePost stores p under its category and returns the stored post.
func (s *PostService) CreatePost(ctx context.Context, p domain.Post) (_ *domain.Post, err error) {
	log := s.Log.With(logging.Group("post", "title", p.Title, "category", p.CategoryID))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "create post failed", "error", err)
		} else {
			log.DebugContext(ctx, "post created", "id", p.ID)
		}
	}()

	if err := s.requireCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}

	p.ID = 0
	p.Comments = nil

	if err := s.PostRepo.CreatePost(ctx, &p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	return &p, nil
}

// GetPost returns the post id together with its comments.
func (s *PostService) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	p, ok, err := s.PostRepo.GetPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	} else if !ok {
		return nil, domain.NewResourceNotFoundError(domain.KindPost, id)
	}

	return p, nil
}

// ListPosts returns one page of posts. A page size above the configured maximum is capped.
func (s *PostService) ListPosts(ctx context.Context, page domain.PageRequest) (_ domain.PagedResult[domain.Post], err error) {
	defer func() {
		if err != nil {
			s.Log.ErrorContext(ctx, "list posts failed", "error", err)
		}
	}()

	if s.Config.MaxPageSize > 0 && page.PageSize > s.Config.MaxPageSize {
		page.PageSize = s.Config.MaxPageSize
	}

	if err := page.Validate(); err != nil {
		return domain.PagedResult[domain.Post]{}, err
	}

	if page.SortBy == "" {
		page.SortBy = "id"
	}

	result, err := s.PostRepo.ListPosts(ctx, page)
	if err != nil {
		return domain.PagedResult[domain.Post]{}, fmt.Errorf("list posts: %w", err)
	}

	return result, nil
}

// ListPostsByCategory returns all posts filed under the category categoryID.
func (s *PostService) ListPostsByCategory(ctx context.Context, categoryID int64) ([]domain.Post, error) {
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	posts, err := s.PostRepo.ListPostsByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list posts by category: %w", err)
	}

	return posts, nil
}

// UpdatePost overwrites title, description, content and category of the post id.
// The post must exist, then the new category must exist.
func (s *PostService) UpdatePost(ctx context.Context, id int64, p domain.Post) (_ *domain.Post, err error) {
	log := s.Log.With(logging.Group("post", "id", id, "category", p.CategoryID))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "update post failed", "error", err)
		} else {
			log.DebugContext(ctx, "post updated")
		}
	}()

	existing, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.requireCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}

	existing.Title = p.Title
	existing.Description = p.Description
	existing.Content = p.Content
	existing.CategoryID = p.CategoryID

	if err := s.PostRepo.UpdatePost(ctx, existing); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	return existing, nil
}

// DeletePost removes the post id together with its comments.
func (s *PostService) DeletePost(ctx context.Context, id int64) (err error) {
	defer func() {
		if err != nil {
			s.Log.ErrorContext(ctx, "delete post failed", "id", id, "error", err)
		} else {
			s.Log.DebugContext(ctx, "post deleted", "id", id)
		}
	}()

	if _, err := s.GetPost(ctx, id); err != nil {
		return err
	}

	if err := s.PostRepo.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	return nil
}

func (s *PostService) requireCategory(ctx context.Context, id int64) error {
	_, ok, err := s.CategoryRepo.GetCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	} else if !ok {
		return domain.NewResourceNotFoundError(domain.KindCategory, id)
	}

	return nil
}
