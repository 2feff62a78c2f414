package domain

import (
	"errors"
	"slices"
)

var (
	// ErrUserAlreadyExists is returned when trying to create a user with an existing username or email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when looking up a non-existent user.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the username/password combination is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// User represents a registered account able to log in.
type User struct {
	ID           int64  // Unique identifier
	Name         string // Display name
	Username     string // Login username
	Email        string // Login email
	PasswordHash []byte // bcrypt hash
	Roles        []Role // Granted roles
	CreatedAt    int64  // Unix timestamp of account creation
}

// Subject returns the principal a credential issued for this user carries.
func (u User) Subject() Subject {
	return Subject{Name: u.Username, Roles: slices.Clone(u.Roles)}
}
