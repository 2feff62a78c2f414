package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/blogapi/internal/infra/database"
)

func TestIsPostgres(t *testing.T) {
	t.Parallel()

	assert.True(t, database.IsPostgres("postgres://user@localhost/blog"))
	assert.True(t, database.IsPostgres("postgresql://user@localhost/blog"))
	assert.False(t, database.IsPostgres("file:blog.db"))
	assert.False(t, database.IsPostgres(":memory:"))
}

func TestOpenSQLite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	db, err := database.Open(ctx, database.DatabaseConfig{DSN: "file:database_test?mode=memory&cache=shared"})
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	assert.True(t, database.IsSQLite(db))

	var enabled int
	require.NoError(t, db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	db, err := database.Open(ctx, database.DatabaseConfig{DSN: "file:unique_test?mode=memory&cache=shared"})
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(ctx, "CREATE TABLE t (name TEXT UNIQUE)")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "INSERT INTO t (name) VALUES ('a')")
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, "INSERT INTO t (name) VALUES ('a')")
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
	assert.False(t, database.IsUniqueViolation(assert.AnError))
}

func TestOpenSQLite_CreatesDirectory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "blog.db")

	db, err := database.Open(ctx, database.DatabaseConfig{DSN: "file:" + path})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.FileExists(t, path)
}
