package user

import (
	"context"

	"github.com/mkrupp/blogapi/internal/domain"
)

// Repository defines the interface for user data persistence.
type Repository interface {
	// CreateUser adds a new user and sets its ID.
	// Returns ErrUserAlreadyExists if the username or email is already taken.
	CreateUser(ctx context.Context, user *domain.User) error

	// GetUserByUsernameOrEmail retrieves a user whose username or email equals login.
	// Returns the user and true if found, or nil and false if not found.
	GetUserByUsernameOrEmail(ctx context.Context, login string) (*domain.User, bool, error)
}

// RepositoryFactory is a function that creates a new Repository instance.
// Returns an error if initialization fails.
type RepositoryFactory func() (Repository, error)
