package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is matched by every ResourceNotFoundError.
	ErrNotFound = errors.New("resource not found")
	// ErrOwnershipMismatch is returned when a comment is addressed through a post it does not belong to.
	ErrOwnershipMismatch = errors.New("comment does not belong to post")
	// ErrInvalidPayload is returned when a request payload fails validation.
	ErrInvalidPayload = errors.New("invalid payload")
)

// Resource kinds used in ResourceNotFoundError.
const (
	KindPost     = "post"
	KindComment  = "comment"
	KindCategory = "category"
)

// ResourceNotFoundError reports a missing record of the given kind.
type ResourceNotFoundError struct {
	Kind string
	ID   int64
}

// NewResourceNotFoundError returns an error for a missing record.
func NewResourceNotFoundError(kind string, id int64) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind, ID: id}
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Kind, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) hold for every ResourceNotFoundError.
func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError describes why a payload was rejected.
type ValidationError struct {
	Details []string
}

// NewValidationError returns a ValidationError listing details.
func NewValidationError(details ...string) *ValidationError {
	return &ValidationError{Details: details}
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return ErrInvalidPayload.Error()
	}

	return ErrInvalidPayload.Error() + ": " + strings.Join(e.Details, "; ")
}

// Is makes errors.Is(err, ErrInvalidPayload) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidPayload
}
