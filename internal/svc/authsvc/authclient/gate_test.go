package authclient_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/blogapi/internal/domain"
	"github.com/mkrupp/blogapi/internal/svc/authsvc/authclient"
)

// mockAuthClient implements authclient.AuthClient for testing.
type mockAuthClient struct {
	subjects map[string]domain.Subject
	err      error
	calls    int
}

func (m *mockAuthClient) Verify(_ context.Context, token string) (domain.Subject, error) {
	m.calls++

	if m.err != nil {
		return domain.Subject{}, m.err
	}

	subject, ok := m.subjects[token]
	if !ok {
		return domain.Subject{}, domain.ErrCredentialMalformed
	}

	return subject, nil
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"case insensitive scheme", "bearer abc", "abc", nil},
		{"surrounding space", "  Bearer   abc  ", "abc", nil},
		{"empty header", "", "", domain.ErrCredentialMissing},
		{"scheme only", "Bearer", "", domain.ErrCredentialMissing},
		{"blank token", "Bearer    ", "", domain.ErrCredentialMissing},
		{"other scheme", "Basic dXNlcjpwYXNz", "", domain.ErrCredentialMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := authclient.BearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	admin := domain.Subject{Name: "admin", Roles: []domain.Role{domain.RoleAdmin}}
	reader := domain.Subject{Name: "reader", Roles: []domain.Role{domain.RoleUser}}

	tests := []struct {
		name      string
		header    string
		clientErr error
		want      domain.Subject
		wantErr   error
		wantCalls int
	}{
		{name: "admin passes", header: "Bearer admin-token", want: admin, wantCalls: 1},
		{name: "missing header", header: "", wantErr: domain.ErrCredentialMissing},
		{name: "wrong role", header: "Bearer reader-token", wantErr: domain.ErrForbiddenRole, wantCalls: 1},
		{name: "unknown token", header: "Bearer nope", wantErr: domain.ErrCredentialMalformed, wantCalls: 1},
		{
			name:      "expired",
			header:    "Bearer admin-token",
			clientErr: domain.ErrCredentialExpired,
			wantErr:   domain.ErrCredentialExpired,
			wantCalls: 1,
		},
		{
			name:      "unsupported",
			header:    "Bearer admin-token",
			clientErr: domain.ErrCredentialUnsupported,
			wantErr:   domain.ErrCredentialUnsupported,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := &mockAuthClient{
				subjects: map[string]domain.Subject{"admin-token": admin, "reader-token": reader},
				err:      tt.clientErr,
			}

			got, err := authclient.Authorize(context.Background(), client, tt.header, domain.RoleAdmin)

			assert.Equal(t, tt.wantCalls, client.calls)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
