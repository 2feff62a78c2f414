package authclient

import (
	"context"

	"github.com/mkrupp/blogapi/internal/domain"
)

// AuthClient verifies credentials.
type AuthClient interface {
	// Verify checks token and returns the subject it carries, or one of the
	// domain credential errors describing why it was rejected.
	Verify(ctx context.Context, token string) (domain.Subject, error)
}
