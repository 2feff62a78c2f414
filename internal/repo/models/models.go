// Package models holds the bun table models and their conversions to domain records.
package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/mkrupp/blogapi/internal/domain"
)

// User is a row of the users table.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Name         string    `bun:"name,notnull"`
	Username     string    `bun:"username,notnull,unique"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash []byte    `bun:"password_hash,notnull"`
	Roles        string    `bun:"roles,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Category is a row of the categories table.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID          int64  `bun:"id,pk,autoincrement"`
	Name        string `bun:"name,notnull"`
	Description string `bun:"description,notnull"`
}

// Post is a row of the posts table.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID          int64      `bun:"id,pk,autoincrement"`
	Title       string     `bun:"title,notnull"`
	Description string     `bun:"description,notnull"`
	Content     string     `bun:"content,notnull"`
	CategoryID  int64      `bun:"category_id,notnull"`
	Comments    []*Comment `bun:"rel:has-many,join:id=post_id"`
}

// Comment is a row of the comments table.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cm"`

	ID     int64  `bun:"id,pk,autoincrement"`
	Name   string `bun:"name,notnull"`
	Email  string `bun:"email,notnull"`
	Body   string `bun:"body,notnull"`
	PostID int64  `bun:"post_id,notnull"`
}

// UserFromDomain converts a domain user into a row.
func UserFromDomain(u domain.User) *User {
	roles := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		roles = append(roles, string(role))
	}

	var createdAt time.Time
	if u.CreatedAt > 0 {
		createdAt = time.Unix(u.CreatedAt, 0).UTC()
	} else {
		createdAt = time.Now().UTC()
	}

	return &User{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Roles:        strings.Join(roles, ","),
		CreatedAt:    createdAt,
	}
}

// ToDomain converts the row into a domain user.
func (u *User) ToDomain() *domain.User {
	roles := make([]domain.Role, 0)

	for _, role := range strings.Split(u.Roles, ",") {
		if role = strings.TrimSpace(role); role != "" {
			roles = append(roles, domain.Role(role))
		}
	}

	return &domain.User{
		ID:           u.ID,
		Name:         u.Name,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Roles:        roles,
		CreatedAt:    u.CreatedAt.Unix(),
	}
}

// CategoryFromDomain converts a domain category into a row.
func CategoryFromDomain(c domain.Category) *Category {
	return &Category{ID: c.ID, Name: c.Name, Description: c.Description}
}

// ToDomain converts the row into a domain category.
func (c *Category) ToDomain() *domain.Category {
	return &domain.Category{ID: c.ID, Name: c.Name, Description: c.Description}
}

// PostFromDomain converts a domain post into a row. Comments are not carried over;
// they are written through the comment repository.
func PostFromDomain(p domain.Post) *Post {
	return &Post{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		CategoryID:  p.CategoryID,
	}
}

// ToDomain converts the row and any loaded comments into a domain post.
func (p *Post) ToDomain() *domain.Post {
	comments := make([]domain.Comment, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, *c.ToDomain())
	}

	return &domain.Post{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		CategoryID:  p.CategoryID,
		Comments:    comments,
	}
}

// CommentFromDomain converts a domain comment into a row.
func CommentFromDomain(c domain.Comment) *Comment {
	return &Comment{ID: c.ID, Name: c.Name, Email: c.Email, Body: c.Body, PostID: c.PostID}
}

// ToDomain converts the row into a domain comment.
func (c *Comment) ToDomain() *domain.Comment {
	return &domain.Comment{ID: c.ID, Name: c.Name, Email: c.Email, Body: c.Body, PostID: c.PostID}
}
