package context_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkrupp/blogapi/internal/domain"
	context_ "github.com/mkrupp/blogapi/internal/infra/context"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, ok := context_.TraceIDFromContext(ctx)
	assert.False(t, ok)

	traceID, ok := context_.TraceIDFromContext(context_.WithTraceID(ctx, "abc"))
	assert.True(t, ok)
	assert.Equal(t, "abc", traceID)
}

func TestSubject(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, ok := context_.SubjectFromContext(ctx)
	assert.False(t, ok)

	want := domain.Subject{Name: "admin", Roles: []domain.Role{domain.RoleAdmin}}
	got, ok := context_.SubjectFromContext(context_.WithSubject(ctx, want))
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
