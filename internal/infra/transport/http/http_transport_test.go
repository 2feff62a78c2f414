package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/blogapi/internal/domain"
	context_ "github.com/mkrupp/blogapi/internal/infra/context"
	"github.com/mkrupp/blogapi/internal/infra/logging"
	http_ "github.com/mkrupp/blogapi/internal/infra/transport/http"
)

type mockAuthClient struct {
	subject domain.Subject
	err     error
}

func (m *mockAuthClient) Verify(context.Context, string) (domain.Subject, error) {
	return m.subject, m.err
}

type testTransport struct {
	authClient *mockAuthClient
}

func (tt *testTransport) Routes(r chi.Router) {
	r.Get("/public", func(w http.ResponseWriter, r *http.Request) {
		traceID, _ := context_.TraceIDFromContext(r.Context())
		http_.WriteJSON(w, http.StatusOK, map[string]string{"trace": traceID})
	})

	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	r.With(http_.AuthorizingMiddleware(tt.authClient, domain.RoleAdmin, logging.NewNopLogger())).
		Post("/admin", func(w http.ResponseWriter, r *http.Request) {
			subject, _ := context_.SubjectFromContext(r.Context())
			http_.WriteJSON(w, http.StatusCreated, subject)
		})
}

func newRouter(client *mockAuthClient) http.Handler {
	//nolint:exhaustruct
	return http_.NewRouter(http_.HTTPTransportConfig{}, &testTransport{authClient: client})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) http_.ErrorResponse {
	t.Helper()

	var body http_.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestRouter_Tracing(t *testing.T) {
	t.Parallel()

	router := newRouter(&mockAuthClient{})

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set(http_.TraceIDHeader, "given-id")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "given-id", rec.Header().Get(http_.TraceIDHeader))
	assert.JSONEq(t, `{"trace":"given-id"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/public", nil))

	assert.NotEmpty(t, rec.Header().Get(http_.TraceIDHeader))
}

func TestRouter_Errors(t *testing.T) {
	t.Parallel()

	router := newRouter(&mockAuthClient{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "uri=/nowhere", decodeError(t, rec).Details)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, domain.CodeInternal, decodeError(t, rec).Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthorizingMiddleware(t *testing.T) {
	t.Parallel()

	admin := domain.Subject{Name: "admin", Roles: []domain.Role{domain.RoleAdmin}}
	reader := domain.Subject{Name: "reader", Roles: []domain.Role{domain.RoleUser}}

	tests := []struct {
		name       string
		header     string
		client     *mockAuthClient
		wantStatus int
		wantCode   domain.ErrorCode
	}{
		{"no header", "", &mockAuthClient{subject: admin}, http.StatusUnauthorized, domain.CodeCredentialMissing},
		{"expired", "Bearer t", &mockAuthClient{err: domain.ErrCredentialExpired}, http.StatusUnauthorized, domain.CodeCredentialExpired},
		{"malformed", "Bearer t", &mockAuthClient{err: domain.ErrCredentialMalformed}, http.StatusUnauthorized, domain.CodeCredentialMalformed},
		{"unsupported", "Bearer t", &mockAuthClient{err: domain.ErrCredentialUnsupported}, http.StatusUnauthorized, domain.CodeCredentialUnsupported},
		{"forbidden", "Bearer t", &mockAuthClient{subject: reader}, http.StatusForbidden, domain.CodeForbiddenRole},
		{"admin", "Bearer t", &mockAuthClient{subject: admin}, http.StatusCreated, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			newRouter(tt.client).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantCode == "" {
				assert.JSONEq(t, `{"name":"admin","roles":["ADMIN"]}`, rec.Body.String())

				return
			}

			body := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotContains(t, body.Message, "Bearer")
		})
	}
}

func TestStatusAndMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err         error
		wantStatus  int
		wantMessage string
	}{
		{
			fmt.Errorf("get post: %w", domain.NewResourceNotFoundError(domain.KindPost, 3)),
			http.StatusNotFound, "post not found with id: 3",
		},
		{
			fmt.Errorf("ensure belongs: %w", domain.ErrOwnershipMismatch),
			http.StatusBadRequest, "comment does not belong to post",
		},
		{
			domain.NewValidationError("title: too short"),
			http.StatusBadRequest, "invalid payload: title: too short",
		},
		{
			errors.Join(domain.ErrUserAlreadyExists, errors.New("UNIQUE constraint failed: users.email")),
			http.StatusConflict, "user already exists",
		},
		{
			errors.New("disk on fire"),
			http.StatusInternalServerError, "Internal Server Error",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.wantStatus, http_.StatusOf(tt.err), tt.err.Error())
		assert.Equal(t, tt.wantMessage, http_.MessageOf(tt.err), tt.err.Error())
	}
}
