package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/coursehub/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryDSN(t *testing.T) string {
	return fmt.Sprintf("file:%s_%d?mode=memory&_pragma=foreign_keys(1)", t.Name(), time.Now().UnixNano())
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	db, err := Open("oracle", "dsn")

	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestRunMigrations_SQLite(t *testing.T) {
	db, err := Open(config.DriverSQLite, memoryDSN(t))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db, config.DriverSQLite))
	// Second run is a no-op
	require.NoError(t, RunMigrations(db, config.DriverSQLite))

	version, dirty, err := MigrationVersion(db, config.DriverSQLite)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	for _, table := range []string{"users", "courses", "modules", "lessons", "enrollments", "lesson_progress", "certificates"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestRollbackMigrations_SQLite(t *testing.T) {
	db, err := Open(config.DriverSQLite, memoryDSN(t))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db, config.DriverSQLite))
	require.NoError(t, RollbackMigrations(db, config.DriverSQLite, 1))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'courses'`).Scan(&count))
	assert.Equal(t, 0, count)

	assert.Error(t, RollbackMigrations(db, config.DriverSQLite, 0))
}

func TestRunMigrations_TestConfig(t *testing.T) {
	cfg, err := config.LoadTestConfig()
	require.NoError(t, err)
	if cfg.Database.Driver != config.DriverSQLite {
		t.Skip("migrations against an external database are covered by the sqlite tests")
	}

	db, err := Open(cfg.Database.Driver, cfg.DSN())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db, cfg.Database.Driver))

	var foreignKeys int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)
}
