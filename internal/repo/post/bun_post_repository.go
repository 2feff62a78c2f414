package post

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/repo/models"
)

//nolint:gochecknoglobals
var sortColumns = map[string]string{
	"id":          "id",
	"title":       "title",
	"description": "description",
	"content":     "content",
	"categoryId":  "category_id",
}

// BunPostRepository implements Repository on top of bun.
type BunPostRepository struct {
	db bun.IDB
}

var _ Repository = (*BunPostRepository)(nil)

// BunPostRepositoryFactory returns a RepositoryFactory sharing db.
func BunPostRepositoryFactory(db bun.IDB) RepositoryFactory {
	return func() (Repository, error) {
		return NewBunPostRepository(db), nil
	}
}

// NewBunPostRepository creates a repository backed by db.
func NewBunPostRepository(db bun.IDB) *BunPostRepository {
	return &BunPostRepository{db: db}
}

func (r *BunPostRepository) selectPosts(dest any) *bun.SelectQuery {
	return r.db.NewSelect().
		Model(dest).
		Relation("Comments", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("id ASC")
		})
}

// GetPost implements Repository.GetPost.
func (r *BunPostRepository) GetPost(ctx context.Context, id int64) (*domain.Post, bool, error) {
	row := new(models.Post)

	err := r.selectPosts(row).Where("p.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("select post: %w", err)
	}

	return row.ToDomain(), true, nil
}

// ListPosts implements Repository.ListPosts.
func (r *BunPostRepository) ListPosts(
	ctx context.Context,
	page domain.PageRequest,
) (domain.PagedResult[domain.Post], error) {
	if err := page.Validate(); err != nil {
		return domain.PagedResult[domain.Post]{}, err
	}

	column, ok := sortColumns[page.SortBy]
	if !ok {
		column = page.SortBy
	}

	direction := "ASC"
	if page.SortDir == domain.SortDesc {
		direction = "DESC"
	}

	var rows []*models.Post

	query := r.selectPosts(&rows).
		OrderExpr("? "+direction, bun.Ident(column)).
		Limit(page.PageSize).
		Offset(page.Offset())

	if column != "id" {
		query = query.Order("p.id ASC")
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return domain.PagedResult[domain.Post]{}, fmt.Errorf("select posts: %w", err)
	}

	return domain.NewPagedResult(toDomain(rows), page, int64(total)), nil
}

// ListPostsByCategory implements Repository.ListPostsByCategory.
func (r *BunPostRepository) ListPostsByCategory(ctx context.Context, categoryID int64) ([]domain.Post, error) {
	var rows []*models.Post

	if err := r.selectPosts(&rows).
		Where("p.category_id = ?", categoryID).
		Order("p.id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}

	return toDomain(rows), nil
}

// CreatePost implements Repository.CreatePost.
func (r *BunPostRepository) CreatePost(ctx context.Context, post *domain.Post) error {
	row := models.PostFromDomain(*post)
	row.ID = 0

	if _, err := r.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	post.ID = row.ID
	post.Comments = []domain.Comment{}

	return nil
}

// UpdatePost implements Repository.UpdatePost.
func (r *BunPostRepository) UpdatePost(ctx context.Context, post *domain.Post) error {
	row := models.PostFromDomain(*post)

	res, err := r.db.NewUpdate().
		Model(row).
		Column("title", "description", "content", "category_id").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	return requireAffected(res, post.ID)
}

// DeletePost implements Repository.DeletePost.
func (r *BunPostRepository) DeletePost(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*models.Post)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	return requireAffected(res, id)
}

func toDomain(rows []*models.Post) []domain.Post {
	posts := make([]domain.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, *row.ToDomain())
	}

	return posts
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if n == 0 {
		return domain.NewResourceNotFoundError(domain.KindPost, id)
	}

	return nil
}
