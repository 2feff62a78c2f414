package context

import (
	"context"

	"github.com/mkrupp/blogapi/internal/domain"
)

const contextKeySubject = contextKey("subject")

// SubjectFromContext returns the verified subject stored by the authorization gate.
func SubjectFromContext(ctx context.Context) (domain.Subject, bool) {
	subject, ok := ctx.Value(contextKeySubject).(domain.Subject)

	return subject, ok
}

// WithSubject returns a context carrying the verified subject.
func WithSubject(ctx context.Context, subject domain.Subject) context.Context {
	return context.WithValue(ctx, contextKeySubject, subject)
}
