package authsvc

import (
	"github.com/mkrupp/blogapi/internal/infra/validation"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

//nolint:gochecknoglobals
var (
	loginSchema = validation.MustCompile("login.json", `{
		"type": "object",
		"required": ["usernameOrEmail", "password"],
		"properties": {
			"usernameOrEmail": {"type": "string", "minLength": 1},
			"password": {"type": "string", "minLength": 1}
		}
	}`)

	registerSchema = validation.MustCompile("register.json", `{
		"type": "object",
		"required": ["name", "username", "email", "password"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"username": {"type": "string", "minLength": 1},
			"email": {"type": "string", "format": "email"},
			"password": {"type": "string", "minLength": 1, "maxLength": 72}
		}
	}`)
)
