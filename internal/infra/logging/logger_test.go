package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/blogapi/internal/domain"
	context_ "github.com/mkrupp/blogapi/internal/infra/context"
	"github.com/mkrupp/blogapi/internal/infra/logging"
)

func TestConsoleHandler_PkgLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	handler := logging.NewConsoleHandler(&buf, logging.LevelInfo, map[string]slog.Level{
		"svc.blogsvc": logging.LevelDebug,
		"repo":        logging.LevelError,
	})
	ctx := context.Background()

	tests := []struct {
		name    string
		logger  string
		level   slog.Level
		written bool
	}{
		{"debug allowed below prefix", "svc.blogsvc.post_service", logging.LevelDebug, true},
		{"debug dropped elsewhere", "svc.authsvc", logging.LevelDebug, false},
		{"info passes global level", "svc.authsvc", logging.LevelInfo, true},
		{"warn dropped by stricter prefix", "repo.post", logging.LevelWarn, false},
		{"error passes stricter prefix", "repo.post", logging.LevelError, true},
	}

	for _, tt := range tests {
		buf.Reset()

		log := slog.New(handler).With(logging.LoggerNameKey, tt.logger)
		log.Log(ctx, tt.level, "message")

		assert.Equal(t, tt.written, buf.Len() > 0, tt.name)
	}
}

func TestConsoleHandler_Attrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log := slog.New(logging.NewConsoleHandler(&buf, logging.LevelDebug, nil))
	log.With(logging.Group("post", "id", 7)).InfoContext(context.Background(), "post created")

	assert.Contains(t, buf.String(), "post created")
	assert.Contains(t, buf.String(), "post.id=")
}

func TestTracingHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	log := slog.New(logging.NewTracingHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := context_.WithTraceID(context.Background(), "trace-1")
	ctx = context_.WithSubject(ctx, domain.Subject{Name: "admin", Roles: []domain.Role{domain.RoleAdmin}})

	log.InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, map[string]any{"id": "trace-1"}, record["trace"])
	assert.Equal(t, map[string]any{"name": "admin"}, record["subject"])
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	log := logging.NewNopLogger()
	assert.False(t, log.Enabled(context.Background(), logging.LevelError))
}
