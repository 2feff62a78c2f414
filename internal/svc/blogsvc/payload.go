package blogsvc

import (
	"slices"

	"github.com/mkrupp/blogapi/internal/domain"
)

// PostPayload is the wire form of a post.
type PostPayload struct {
	ID          int64            `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Content     string           `json:"content"`
	CategoryID  int64            `json:"categoryId"`
	Comments    []CommentPayload `json:"comments"`
}

// PostV2Payload is version 2 of the single post read: the post plus a tag list.
type PostV2Payload struct {
	PostPayload

	Tags []string `json:"tags"`
}

// CommentPayload is the wire form of a comment.
type CommentPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Body  string `json:"body"`
}

// CategoryPayload is the wire form of a category.
type CategoryPayload struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PagedPayload is the wire form of one page of a listing.
type PagedPayload[T any] struct {
	Content       []T   `json:"content"`
	PageNo        int   `json:"pageNo"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}

func toPostPayload(p domain.Post) PostPayload {
	comments := make([]CommentPayload, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, toCommentPayload(c))
	}

	return PostPayload{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		CategoryID:  p.CategoryID,
		Comments:    comments,
	}
}

func toPostV2Payload(p PostPayload, tags []string) PostV2Payload {
	return PostV2Payload{
		PostPayload: p,
		Tags:        slices.Clone(tags),
	}
}

func (p PostPayload) toDomain() domain.Post {
	return domain.Post{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		CategoryID:  p.CategoryID,
	}
}

func toCommentPayload(c domain.Comment) CommentPayload {
	return CommentPayload{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Body:  c.Body,
	}
}

func (c CommentPayload) toDomain() domain.Comment {
	return domain.Comment{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Body:  c.Body,
	}
}

func toCategoryPayload(c domain.Category) CategoryPayload {
	return CategoryPayload{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

func (c CategoryPayload) toDomain() domain.Category {
	return domain.Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}

func toPagedPayload[T, U any](page domain.PagedResult[T], fn func(T) U) PagedPayload[U] {
	mapped := domain.MapPagedResult(page, fn)

	return PagedPayload[U]{
		Content:       mapped.Content,
		PageNo:        mapped.PageNumber,
		PageSize:      mapped.PageSize,
		TotalElements: mapped.TotalElements,
		TotalPages:    mapped.TotalPages,
		Last:          mapped.IsLastPage,
	}
}

func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}

	return out
}
