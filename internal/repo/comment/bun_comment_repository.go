package comment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/repo/models"
)

// BunCommentRepository implements Repository on top of bun.
type BunCommentRepository struct {
	db bun.IDB
}

var _ Repository = (*BunCommentRepository)(nil)

// BunCommentRepositoryFactory returns a RepositoryFactory sharing db.
func BunCommentRepositoryFactory(db bun.IDB) RepositoryFactory {
	return func() (Repository, error) {
		return NewBunCommentRepository(db), nil
	}
}

// NewBunCommentRepository creates a repository backed by db.
func NewBunCommentRepository(db bun.IDB) *BunCommentRepository {
	return &BunCommentRepository{db: db}
}

// GetComment implements Repository.GetComment.
func (r *BunCommentRepository) GetComment(ctx context.Context, id int64) (*domain.Comment, bool, error) {
	row := new(models.Comment)

	err := r.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("select comment: %w", err)
	}

	return row.ToDomain(), true, nil
}

// ListCommentsByPost implements Repository.ListCommentsByPost.
func (r *BunCommentRepository) ListCommentsByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	var rows []*models.Comment

	if err := r.db.NewSelect().
		Model(&rows).
		Where("post_id = ?", postID).
		Order("id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("select comments: %w", err)
	}

	comments := make([]domain.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, *row.ToDomain())
	}

	return comments, nil
}

// CreateComment implements Repository.CreateComment.
func (r *BunCommentRepository) CreateComment(ctx context.Context, comment *domain.Comment) error {
	row := models.CommentFromDomain(*comment)
	row.ID = 0

	if _, err := r.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	comment.ID = row.ID

	return nil
}

// UpdateComment implements Repository.UpdateComment.
func (r *BunCommentRepository) UpdateComment(ctx context.Context, comment *domain.Comment) error {
	row := models.CommentFromDomain(*comment)

	res, err := r.db.NewUpdate().Model(row).Column("name", "email", "body").WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	return requireAffected(res, comment.ID)
}

// DeleteComment implements Repository.DeleteComment.
func (r *BunCommentRepository) DeleteComment(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().Model((*models.Comment)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if n == 0 {
		return domain.NewResourceNotFoundError(domain.KindComment, id)
	}

	return nil
}
