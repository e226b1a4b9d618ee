package db

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/russross/meddler"
	"github.com/stretchr/testify/require"

	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/pkg/config"
)

func setupTestDB(t *testing.T, journal string) (*DB, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "db_test.sqlite")

	dbConfig := config.DatabaseConfig{Path: dbPath, JournalMode: journal}
	dbConfig.ApplyDefaults()

	database, err := Open(dbConfig)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(`CREATE TABLE IF NOT EXISTS test_table (id INTEGER PRIMARY KEY, value TEXT);`)
	require.NoError(t, err)

	for i := range 2000 {
		_, err = database.Exec(`INSERT INTO test_table (value) VALUES ($1);`, fmt.Sprintf("value_%d", i))
		require.NoError(t, err)
	}

	return database, dbPath
}

func TestOpen_SQLite(t *testing.T) {
	t.Parallel()

	database, _ := setupTestDB(t, "WAL")
	require.True(t, database.IsSQLite())
	require.Equal(t, meddler.SQLite, database.Meddler())

	var mode string
	require.NoError(t, database.QueryRow("PRAGMA journal_mode").Scan(&mode))
	require.Equal(t, "wal", mode)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := Open(config.DatabaseConfig{Driver: "mysql"})
	require.ErrorContains(t, err, "unsupported database driver")
}

func TestVacuum_Modes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		journalMode string
	}{
		{name: "WAL", journalMode: "WAL"},
		{name: "NonWAL", journalMode: "TRUNCATE"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			database, dbPath := setupTestDB(t, tc.journalMode)

			_, err := database.Exec(`DELETE FROM test_table WHERE id % 2 = 0`)
			require.NoError(t, err)

			initialSize, err := DBTotalSize(dbPath)
			require.NoError(t, err)

			require.NoError(t, Vacuum(database.DB))

			finalSize, err := DBTotalSize(dbPath)
			require.NoError(t, err)

			if tc.journalMode != "WAL" {
				require.LessOrEqual(t, finalSize, initialSize)
			}
		})
	}
}

func TestDBTotalSize(t *testing.T) {
	testCases := []struct {
		name       string
		files      map[string]string
		expectSize int64
	}{
		{
			name:       "MainOnly",
			files:      map[string]string{"": "main-db-content"},
			expectSize: int64(len("main-db-content")),
		},
		{
			name: "WithWALAndSHM",
			files: map[string]string{
				"":     "main-db",
				"-wal": "wal-content",
				"-shm": "shm-content",
			},
			expectSize: int64(len("main-db") + len("wal-content") + len("shm-content")),
		},
		{
			name:       "MissingFiles",
			files:      map[string]string{},
			expectSize: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mainPath := filepath.Join(t.TempDir(), "main.db")
			for suffix, content := range tc.files {
				require.NoError(t, os.WriteFile(mainPath+suffix, []byte(content), 0o600))
			}

			size, err := DBTotalSize(mainPath)
			require.NoError(t, err)
			require.Equal(t, tc.expectSize, size)
		})
	}
}

func TestRunMigrations(t *testing.T) {
	t.Parallel()

	database, _ := setupTestDB(t, "WAL")
	log := logger.NewNopLogger()

	migrations := []Migration{
		{
			ID: "001_widgets.sql",
			SQL: `-- +migrate Down
DROP TABLE IF EXISTS widgets;

-- +migrate Up
CREATE TABLE widgets (id INTEGER PRIMARY KEY, name TEXT NOT NULL);`,
		},
	}

	require.NoError(t, RunMigrations(log, database, migrations))
	// second run is a no-op
	require.NoError(t, RunMigrations(log, database, migrations))

	_, err := database.Exec(`INSERT INTO widgets (name) VALUES ($1)`, "a")
	require.NoError(t, err)

	require.NoError(t, RunMigrationsDBExtended(log, database.DB, database.Driver, migrations, migrate.Down, 1))

	_, err = database.Exec(`INSERT INTO widgets (name) VALUES ($1)`, "b")
	require.Error(t, err)
}

func TestRunMigrations_MissingSeparator(t *testing.T) {
	t.Parallel()

	database, _ := setupTestDB(t, "WAL")

	err := RunMigrations(logger.NewNopLogger(), database, []Migration{
		{ID: "broken.sql", SQL: "CREATE TABLE broken (id INTEGER);"},
	})
	require.ErrorContains(t, err, "missing")
}
