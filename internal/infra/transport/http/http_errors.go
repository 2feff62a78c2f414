package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/mkrupp/blogapi/internal/domain"
)

var (
	// ErrRouteNotFound is answered for paths no transport serves.
	ErrRouteNotFound = errors.New("no route")
	// ErrMethodNotAllowed is answered for known paths with an unsupported method.
	ErrMethodNotAllowed = errors.New("method not allowed")

	errPanic = errors.New("internal error")
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Timestamp time.Time        `json:"timestamp"`
	Code      domain.ErrorCode `json:"code"`
	Message   string           `json:"message"`
	Details   string           `json:"details"`
}

// StatusOf maps err onto an HTTP status code.
//
//nolint:cyclop
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrRouteNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	}

	switch domain.CodeOf(err) {
	case domain.CodeCredentialMissing,
		domain.CodeCredentialMalformed,
		domain.CodeCredentialUnsupported,
		domain.CodeCredentialExpired,
		domain.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case domain.CodeForbiddenRole:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeOwnershipMismatch, domain.CodeInvalidPayload:
		return http.StatusBadRequest
	case domain.CodeUserAlreadyExists:
		return http.StatusConflict
	case domain.CodeInternal:
		return http.StatusInternalServerError
	}

	return http.StatusInternalServerError
}

// MessageOf returns the client facing message for err. Only the text of known
// domain failures is exposed; wrapping context and unknown errors are not.
func MessageOf(err error) string {
	var notFound *domain.ResourceNotFoundError
	if errors.As(err, &notFound) {
		return notFound.Error()
	}

	var invalid *domain.ValidationError
	if errors.As(err, &invalid) {
		return invalid.Error()
	}

	switch {
	case errors.Is(err, ErrRouteNotFound):
		return http.StatusText(http.StatusNotFound)
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusText(http.StatusMethodNotAllowed)
	}

	if known := domain.ErrorOf(domain.CodeOf(err)); known != nil {
		return known.Error()
	}

	return http.StatusText(http.StatusInternalServerError)
}

// WriteError answers r with the status and body describing err.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	WriteJSON(w, StatusOf(err), ErrorResponse{
		Timestamp: time.Now().UTC(),
		Code:      domain.CodeOf(err),
		Message:   MessageOf(err),
		Details:   "uri=" + r.URL.Path,
	})
}

// WriteJSON answers with status and v encoded as JSON.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

// WriteText answers with status and msg as plain text.
func WriteText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)

	_, _ = io.WriteString(w, msg)
}
