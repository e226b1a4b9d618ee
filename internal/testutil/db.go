package testutil

import (
	"path"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goran-ethernal/BBSCache/internal/db"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/internal/migrations"
	"github.com/goran-ethernal/BBSCache/pkg/config"
)

// NewTestDB creates a new temporary, fully migrated SQLite database for testing purposes
func NewTestDB(t *testing.T, dbName string) *db.DB {
	t.Helper()

	dbConfig := config.DatabaseConfig{Path: path.Join(t.TempDir(), dbName)}
	dbConfig.ApplyDefaults()

	database, err := db.Open(dbConfig)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, migrations.EnsureSchema(logger.NewNopLogger(), database))

	return database
}
