package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("DATABASE_URL", "")
	cfg := ConfigFromEnv()
	assert.Equal(t, DriverSQLite, cfg.Driver)
	assert.Equal(t, "file:var/tattoo.db", cfg.DSN)

	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app?sslmode=disable")
	cfg = ConfigFromEnv()
	assert.Equal(t, DriverPostgres, cfg.Driver)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t,
		"file:a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		sqliteDSN("file:a.db"))
	assert.Equal(t,
		"file:a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		sqliteDSN("file:a.db?mode=rwc"))
	assert.Equal(t, "file:a.db?_pragma=foreign_keys(0)", sqliteDSN("file:a.db?_pragma=foreign_keys(0)"))
}

func TestQuoteLiteral(t *testing.T) {
	assert.Equal(t, "'America/Sao_Paulo'", quoteLiteral("America/Sao_Paulo"))
	assert.Equal(t, "'it''s'", quoteLiteral("it's"))
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect(Config{Driver: "oracle", DSN: "x"})
	require.Error(t, err)
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, DSN: "file:" + filepath.Join(t.TempDir(), "m.db")})
	require.NoError(t, err)
	defer db.Close()

	n, err := Migrate(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// second run is a no-op
	n, err = Migrate(context.Background(), db)
	require.NoError(t, err)
	assert.Zero(t, n)

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM users`))
	assert.Zero(t, count)
}

func TestIsDuplicate(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, DSN: "file:" + filepath.Join(t.TempDir(), "d.db")})
	require.NoError(t, err)
	defer db.Close()
	_, err = Migrate(context.Background(), db)
	require.NoError(t, err)

	const q = `INSERT INTO users (name, email, password_hash, active, created_at, updated_at)
		VALUES ('A', 'a@x.com', 'h', 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`
	_, err = db.Exec(q)
	require.NoError(t, err)
	_, err = db.Exec(q)
	require.Error(t, err)
	assert.True(t, IsDuplicate(err))

	assert.True(t, IsDuplicate(&pq.Error{Code: "23505"}))
	assert.False(t, IsDuplicate(&pq.Error{Code: "23503"}))
	assert.True(t, IsDuplicate(fmt.Errorf("wrapped: %w", ErrDuplicate)))
	assert.False(t, IsDuplicate(errors.New("boom")))
	assert.False(t, IsDuplicate(nil))
}
