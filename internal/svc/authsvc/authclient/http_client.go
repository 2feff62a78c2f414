package authclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mkrupp/blogapi/internal/domain"
	context_ "github.com/mkrupp/blogapi/internal/infra/context"
	"github.com/mkrupp/blogapi/internal/infra/logging"
)

const (
	TraceIDHeader       = "X-Request-ID"
	AuthorizationHeader = "Authorization"
)

// ErrUnexpectedResponse is returned when the auth service answers in a way the client does not understand.
var ErrUnexpectedResponse = errors.New("unexpected auth service response")

// HTTPClientConfig holds configuration for the HTTP auth client.
type HTTPClientConfig struct {
	// AuthURL is the validate endpoint of a remote auth service; empty verifies in process
	AuthURL string `env:"AUTH_URL" default:""`

	// Timeout bounds a single validate call when no http.Client is supplied
	Timeout time.Duration `env:"TIMEOUT" default:"5s"`
}

// HTTPClient implements AuthClient by calling the validate endpoint of a remote auth service.
type HTTPClient struct {
	httpClient *http.Client
	log        logging.Logger
	cfg        HTTPClientConfig
}

var _ AuthClient = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTPClient with the given configuration.
// If httpClient is nil, a client bounded by cfg.Timeout is used.
func NewHTTPClient(
	cfg HTTPClientConfig,
	httpClient *http.Client,
) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout} //nolint:exhaustruct
	}

	return &HTTPClient{
		httpClient: httpClient,
		log:        logging.GetLogger("svc.authsvc.authclient.http_client"),
		cfg:        cfg,
	}
}

type errorBody struct {
	Code domain.ErrorCode `json:"code"`
}

// Verify implements AuthClient.Verify. Rejections reported by the remote service
// are mapped back onto the domain credential errors.
func (c *HTTPClient) Verify(ctx context.Context, token string) (_ domain.Subject, err error) {
	defer func() {
		if err != nil {
			c.log.WarnContext(ctx, "remote verify failed", "error", err)
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.AuthURL, nil)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set(AuthorizationHeader, bearerPrefix+token)

	if traceID, ok := context_.TraceIDFromContext(ctx); ok {
		req.Header.Set(TraceIDHeader, traceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Subject{}, fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body errorBody

		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			if known := domain.ErrorOf(body.Code); known != nil {
				return domain.Subject{}, known
			}
		}

		return domain.Subject{}, fmt.Errorf("%w: status %d", ErrUnexpectedResponse, resp.StatusCode)
	}

	var subject domain.Subject
	if err := json.NewDecoder(resp.Body).Decode(&subject); err != nil {
		return domain.Subject{}, fmt.Errorf("%w: decode subject: %w", ErrUnexpectedResponse, err)
	}

	return subject, nil
}
