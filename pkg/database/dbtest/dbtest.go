// Package dbtest opens throwaway migrated databases for package tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-tattoo-go/pkg/database"
)

// New returns a migrated SQLite database stored in the test's temp dir. The
// connection is closed when the test finishes.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	cfg := database.Config{
		Driver:   database.DriverSQLite,
		DSN:      "file:" + filepath.Join(t.TempDir(), "test.db"),
		MaxConns: 4,
	}
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("connect test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}
