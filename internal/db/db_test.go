package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsUpDownOnSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "campusshare.db") + "?_pragma=foreign_keys(1)"
	database, err := Init(DriverSQLite, dsn, DefaultOptions())
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, RunMigrations(database.DB, DriverSQLite))
	require.NoError(t, MigrationStatus(database.DB, DriverSQLite))

	var count int
	require.NoError(t, database.Get(&count, `SELECT COUNT(*) FROM reports`))
	assert.Zero(t, count)

	require.NoError(t, MigrateDown(database.DB, DriverSQLite))
	assert.Error(t, database.Get(&count, `SELECT COUNT(*) FROM reports`))

	// Re-running once current is a no-op.
	require.NoError(t, RunMigrations(database.DB, DriverSQLite))
	require.NoError(t, RunMigrations(database.DB, DriverSQLite))
	require.NoError(t, database.Get(&count, `SELECT COUNT(*) FROM reports`))
}

func TestEnsureSQLiteDirSkipsMemory(t *testing.T) {
	assert.NoError(t, ensureSQLiteDir(":memory:"))
	assert.NoError(t, ensureSQLiteDir("file::memory:?cache=shared"))
}
