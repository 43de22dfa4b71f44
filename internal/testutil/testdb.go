package testutil

import (
	"database/sql"
	"testing"

	"github.com/alexanderramin/missionctl/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB opens a private migrated in-memory database, closed with the test.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openTestDB(t, db.MemoryPath)
}

// NewFileTestDB opens the migrated database file at path, closed with the
// test. Two calls with the same path behave like two missionctl processes.
func NewFileTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	return openTestDB(t, path)
}

func openTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	require.NoError(t, err, "opening test database %s", path)
	t.Cleanup(func() { _ = database.Close() })
	return database
}
