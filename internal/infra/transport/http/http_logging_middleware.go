package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mkrupp/blogapi/internal/infra/logging"
)

// LoggingMiddleware logs every request at DEBUG and its response at a level
// chosen by status: ERROR for 5xx, WARN for 4xx, INFO otherwise.
func LoggingMiddleware(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.DebugContext(r.Context(), "request", slog.Group("http",
				"uri", r.RequestURI,
				"method", r.Method,
				"remote", r.RemoteAddr,
			))

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			var level logging.Level

			switch {
			case status >= http.StatusInternalServerError:
				level = logging.LevelError
			case status >= http.StatusBadRequest:
				level = logging.LevelWarn
			default:
				level = logging.LevelInfo
			}

			log.Log(r.Context(), level, "response", slog.Group("http",
				"uri", r.RequestURI,
				"method", r.Method,
				"status", status,
				"bytes_sent", ww.BytesWritten(),
			))
		})
	}
}
