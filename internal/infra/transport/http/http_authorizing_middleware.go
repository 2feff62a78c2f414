package http

import (
	"net/http"

	"github.com/mkrupp/blogapi/internal/domain"
	context_ "github.com/mkrupp/blogapi/internal/infra/context"
	"github.com/mkrupp/blogapi/internal/infra/logging"
	"github.com/mkrupp/blogapi/internal/svc/authsvc/authclient"
)

// AuthorizingMiddleware admits only requests whose bearer credential is accepted by
// authClient and whose subject has role. Rejected requests never reach next.
// On success the subject is added to the request context.
func AuthorizingMiddleware(
	authClient authclient.AuthClient,
	role domain.Role,
	log logging.Logger,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := authclient.Authorize(r.Context(), authClient, r.Header.Get("Authorization"), role)
			if err != nil {
				log.WarnContext(r.Context(), "request not authorized",
					"role", role,
					"code", domain.CodeOf(err),
				)
				WriteError(w, r, err)

				return
			}

			next.ServeHTTP(w, r.WithContext(context_.WithSubject(r.Context(), subject)))
		})
	}
}
