// Package testutil builds throwaway databases for package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/goalnudge/internal/db"
)

// NewDB returns a migrated sqlite database in t's temp dir, closed on cleanup.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	database, err := db.Init("sqlite", dsn)
	require.NoError(t, err)

	t.Cleanup(func() {
		database.Close()
	})

	err = db.RunMigrations(database.DB, "sqlite")
	require.NoError(t, err)

	return database
}
