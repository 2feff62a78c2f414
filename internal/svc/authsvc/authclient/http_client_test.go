package authclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/blogapi/internal/domain"
	context_ "github.com/mkrupp/blogapi/internal/infra/context"
	"github.com/mkrupp/blogapi/internal/svc/authsvc/authclient"
)

func TestHTTPClient_Verify(t *testing.T) {
	t.Parallel()

	admin := domain.Subject{Name: "admin", Roles: []domain.Role{domain.RoleAdmin}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.Header.Get(authclient.AuthorizationHeader) {
		case "Bearer good":
			assert.Equal(t, "trace-1", r.Header.Get(authclient.TraceIDHeader))
			_ = json.NewEncoder(w).Encode(admin)
		case "Bearer expired":
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"code": string(domain.CodeCredentialExpired)})
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}
	}))
	t.Cleanup(server.Close)

	client := authclient.NewHTTPClient(authclient.HTTPClientConfig{AuthURL: server.URL}, server.Client())
	ctx := context_.WithTraceID(context.Background(), "trace-1")

	got, err := client.Verify(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, admin, got)

	_, err = client.Verify(ctx, "expired")
	assert.ErrorIs(t, err, domain.ErrCredentialExpired)

	_, err = client.Verify(ctx, "other")
	assert.ErrorIs(t, err, authclient.ErrUnexpectedResponse)
}

func TestHTTPClient_VerifyTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	cfg := authclient.HTTPClientConfig{AuthURL: server.URL, Timeout: 50 * time.Millisecond}
	client := authclient.NewHTTPClient(cfg, nil)

	start := time.Now()
	_, err := client.Verify(context.Background(), "good")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.NotErrorIs(t, err, domain.ErrCredentialMalformed)
	assert.NotErrorIs(t, err, domain.ErrCredentialExpired)
	assert.NotErrorIs(t, err, domain.ErrCredentialUnsupported)
}
