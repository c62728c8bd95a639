// Package sqlitetest opens migrated embedded-store databases for tests.
package sqlitetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/docstore/internal/migrations/sqlite"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// DSN returns the driver DSN used by the embedded adapter for path.
func DSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
}

// Open returns a fresh database file under t.TempDir() with the schema applied.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", DSN(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	p, err := goose.NewProvider(goose.DialectSQLite3, db, sqlite.Migrations)
	require.NoError(t, err)
	_, err = p.Up(context.Background())
	require.NoError(t, err)

	return db
}

// InsertUser adds a user row directly and returns its id.
func InsertUser(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	_, err := db.Exec(`INSERT INTO users (id, email, username, password_hash) VALUES (?, ?, ?, 'x')`,
		id, name+"@example.com", name)
	require.NoError(t, err)
	return id
}
