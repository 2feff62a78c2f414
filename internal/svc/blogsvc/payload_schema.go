package blogsvc

import (
	"github.com/mkrupp/blogapi/internal/infra/validation"
)

//nolint:gochecknoglobals
var (
	postSchema = validation.MustCompile("post.json", `{
		"type": "object",
		"required": ["title", "description", "content", "categoryId"],
		"properties": {
			"title": {"type": "string", "minLength": 2},
			"description": {"type": "string", "minLength": 10},
			"content": {"type": "string", "minLength": 1},
			"categoryId": {"type": "integer"}
		}
	}`)

	commentSchema = validation.MustCompile("comment.json", `{
		"type": "object",
		"required": ["name", "email", "body"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"email": {"type": "string", "minLength": 1, "format": "email"},
			"body": {"type": "string", "minLength": 10}
		}
	}`)

	categorySchema = validation.MustCompile("category.json", `{
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"description": {"type": "string"}
		}
	}`)
)
