// Package repotest provides migrated in-memory databases for tests.
package repotest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/mkrupp/blogapi/internal/infra/database"
	"github.com/mkrupp/blogapi/internal/repo/migrations"
)

// NewDB opens a private in-memory SQLite database with all migrations applied.
// The database is closed when the test finishes.
func NewDB(t testing.TB) *bun.DB {
	t.Helper()

	ctx := context.Background()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"

	db, err := database.Open(ctx, database.DatabaseConfig{DSN: dsn})
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Apply(ctx, db))

	return db
}
