package authclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkrupp/blogapi/internal/domain"
)

const bearerPrefix = "Bearer "

// BearerToken extracts the token from an Authorization header value.
// A header without the Bearer scheme or with a blank token yields ErrCredentialMissing.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)

	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", domain.ErrCredentialMissing
	}

	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", domain.ErrCredentialMissing
	}

	return token, nil
}

// Authorize admits a request carrying the Authorization header value header
// only if it holds a credential client accepts and whose subject has role.
func Authorize(ctx context.Context, client AuthClient, header string, role domain.Role) (domain.Subject, error) {
	token, err := BearerToken(header)
	if err != nil {
		return domain.Subject{}, err
	}

	subject, err := client.Verify(ctx, token)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("verify credential: %w", err)
	}

	if !subject.HasRole(role) {
		return domain.Subject{}, fmt.Errorf("%w: %s requires %s", domain.ErrForbiddenRole, subject.Name, role)
	}

	return subject, nil
}
