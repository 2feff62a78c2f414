// Package database opens bun connections for SQLite and PostgreSQL DSNs.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/mkrupp/blogapi/internal/infra/logging"
)

// DatabaseConfig holds the connection settings.
type DatabaseConfig struct {
	// DSN is a postgres:// URL or a SQLite path / file: URI
	DSN string `env:"DSN" default:"file:var/storage/blogapi.db"`

	// AutoMigrate applies pending migrations when the server starts
	AutoMigrate bool `env:"AUTO_MIGRATE" default:"true"`

	// MaxOpenConns limits the PostgreSQL pool; SQLite always uses one connection
	MaxOpenConns int `env:"MAX_OPEN_CONNS" default:"25"`
}

// IsPostgres reports whether dsn addresses a PostgreSQL server.
func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// IsSQLite reports whether db speaks the SQLite dialect.
func IsSQLite(db bun.IDB) bool {
	return db.Dialect().Name() == dialect.SQLite
}

// Open connects to the database addressed by cfg.DSN and verifies the connection.
func Open(ctx context.Context, cfg DatabaseConfig) (_ *bun.DB, err error) {
	log := logging.GetLogger("infra.database")

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "open database failed", "error", err)
		} else {
			log.DebugContext(ctx, "database opened", "postgres", IsPostgres(cfg.DSN))
		}
	}()

	if IsPostgres(cfg.DSN) {
		return openPostgres(ctx, cfg)
	}

	return openSQLite(ctx, cfg.DSN)
}

func openPostgres(ctx context.Context, cfg DatabaseConfig) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))

	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
		sqldb.SetMaxIdleConns(cfg.MaxOpenConns)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.PingContext(ctx); err != nil {
		_ = sqldb.Close()

		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

func openSQLite(ctx context.Context, dsn string) (*bun.DB, error) {
	if path, ok := sqliteFile(dsn); ok {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// go-sqlite does not support concurrent writes
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = sqldb.Close()

			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = sqldb.Close()

		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// sqliteFile returns the file path of an on-disk SQLite DSN.
func sqliteFile(dsn string) (string, bool) {
	path, query, _ := strings.Cut(strings.TrimPrefix(dsn, "file:"), "?")

	if path == "" || path == ":memory:" || strings.Contains(query, "mode=memory") {
		return "", false
	}

	return path, true
}
