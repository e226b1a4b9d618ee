package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/pkg/config"
)

func setupMaintenanceTestDB(t *testing.T, journalMode string) *DB {
	t.Helper()

	dbConfig := config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "maintenance_test.sqlite"),
		JournalMode: journalMode,
	}
	dbConfig.ApplyDefaults()

	database, err := Open(dbConfig)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	_, err = database.Exec(`CREATE TABLE IF NOT EXISTS test_data (id INTEGER PRIMARY KEY, data TEXT)`)
	require.NoError(t, err)

	for i := range 500 {
		_, err = database.Exec(`INSERT INTO test_data (data) VALUES ($1)`, i)
		require.NoError(t, err)
	}

	return database
}

func TestNewMaintenance(t *testing.T) {
	t.Parallel()

	database := setupMaintenanceTestDB(t, "WAL")
	log := logger.NewNopLogger()

	tests := []struct {
		name   string
		db     *DB
		cfg    *config.MaintenanceConfig
		expect any
	}{
		{name: "nil config", db: database, cfg: nil, expect: &NoOpMaintenance{}},
		{name: "disabled", db: database, cfg: &config.MaintenanceConfig{}, expect: &NoOpMaintenance{}},
		{
			name:   "postgres",
			db:     &DB{Driver: config.DriverPostgres},
			cfg:    &config.MaintenanceConfig{Enabled: true},
			expect: &NoOpMaintenance{},
		},
		{
			name:   "enabled sqlite",
			db:     database,
			cfg:    &config.MaintenanceConfig{Enabled: true, WALCheckpointMode: "TRUNCATE"},
			expect: &SQLiteMaintenance{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMaintenance(tt.db, tt.cfg, log)
			require.IsType(t, tt.expect, m)
		})
	}
}

func TestSQLiteMaintenance_RunMaintenance(t *testing.T) {
	t.Parallel()

	database := setupMaintenanceTestDB(t, "WAL")

	cfg := config.MaintenanceConfig{Enabled: true, Vacuum: true, WALCheckpointMode: "TRUNCATE"}
	m := newSQLiteMaintenance(database.Path, database.DB, cfg, logger.NewNopLogger())

	require.NoError(t, m.RunMaintenance(context.Background()))
	require.NoError(t, m.RunMaintenance(context.Background()))

	metrics := m.GetMetrics()
	require.Equal(t, uint64(2), metrics.MaintenanceCount)
	require.NoError(t, metrics.LastMaintenanceError)
	require.False(t, metrics.LastMaintenanceTime.IsZero())
}

func TestSQLiteMaintenance_NonWALSkipsCheckpoint(t *testing.T) {
	t.Parallel()

	database := setupMaintenanceTestDB(t, "DELETE")

	cfg := config.MaintenanceConfig{Enabled: true, WALCheckpointMode: "PASSIVE"}
	m := newSQLiteMaintenance(database.Path, database.DB, cfg, logger.NewNopLogger())

	isWAL, err := m.isWALMode(context.Background())
	require.NoError(t, err)
	require.False(t, isWAL)

	require.NoError(t, m.RunMaintenance(context.Background()))
}

func TestSQLiteMaintenance_ContextCancellation(t *testing.T) {
	t.Parallel()

	database := setupMaintenanceTestDB(t, "WAL")

	cfg := config.MaintenanceConfig{Enabled: true, WALCheckpointMode: "TRUNCATE"}
	m := newSQLiteMaintenance(database.Path, database.DB, cfg, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, m.RunMaintenance(ctx), context.Canceled)
}

func TestNoOpMaintenance(t *testing.T) {
	m := &NoOpMaintenance{}
	require.NoError(t, m.RunMaintenance(context.Background()))
	require.Equal(t, MaintenanceMetrics{}, m.GetMetrics())
}
