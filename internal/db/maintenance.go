package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goran-ethernal/BBSCache/internal/common"
	"github.com/goran-ethernal/BBSCache/internal/logger"
	"github.com/goran-ethernal/BBSCache/pkg/config"
)

// Maintenance runs database housekeeping between passes.
type Maintenance interface {
	// RunMaintenance performs database maintenance operations.
	RunMaintenance(ctx context.Context) error
	// GetMetrics returns current maintenance metrics.
	GetMetrics() MaintenanceMetrics
}

// NoOpMaintenance is a no-operation implementation of the Maintenance interface.
type NoOpMaintenance struct{}

// RunMaintenance is a no-op.
func (m *NoOpMaintenance) RunMaintenance(ctx context.Context) error {
	return nil
}

// GetMetrics returns empty maintenance metrics.
func (m *NoOpMaintenance) GetMetrics() MaintenanceMetrics {
	return MaintenanceMetrics{}
}

// SQLiteMaintenance checkpoints the WAL and optionally vacuums a SQLite database.
type SQLiteMaintenance struct {
	db     *sql.DB
	config config.MaintenanceConfig
	dbPath string
	log    *logger.Logger

	// serializes runs, a pass and the API may both trigger one
	runLock sync.Mutex

	metricsLock         sync.Mutex
	lastMaintenanceTime time.Time
	maintenanceCount    uint64
	lastMaintenanceErr  error
}

// NewMaintenance returns the maintenance implementation for db.
// Postgres databases, a nil config and a disabled config all get NoOpMaintenance.
func NewMaintenance(db *DB, cfg *config.MaintenanceConfig, log *logger.Logger) Maintenance {
	if cfg == nil || !cfg.Enabled || !db.IsSQLite() {
		return &NoOpMaintenance{}
	}

	return newSQLiteMaintenance(db.Path, db.DB, *cfg, log)
}

func newSQLiteMaintenance(
	dbPath string,
	db *sql.DB,
	cfg config.MaintenanceConfig,
	log *logger.Logger,
) *SQLiteMaintenance {
	return &SQLiteMaintenance{
		db:     db,
		config: cfg,
		dbPath: dbPath,
		log:    log.WithComponent(common.ComponentMaintenance),
	}
}

// RunMaintenance performs a WAL checkpoint followed by an optional VACUUM.
// Both steps are attempted; the first failure is returned.
func (m *SQLiteMaintenance) RunMaintenance(ctx context.Context) (err error) {
	m.runLock.Lock()
	defer m.runLock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	m.log.Debug("Starting database maintenance")
	start := time.Now()

	sizeBefore, sizeErr := DBTotalSize(m.dbPath)
	if sizeErr != nil {
		m.log.Warnf("Failed to get DB size: %v", sizeErr)
	}

	var sizeAfter int64
	defer func() {
		observeMaintenance(start, err, sizeBefore, sizeAfter)

		m.metricsLock.Lock()
		m.lastMaintenanceTime = time.Now().UTC()
		m.maintenanceCount++
		m.lastMaintenanceErr = err
		m.metricsLock.Unlock()
	}()

	if walErr := m.walCheckpoint(ctx); walErr != nil {
		m.log.Errorf("WAL checkpoint failed: %v", walErr)
		err = fmt.Errorf("WAL checkpoint failed: %w", walErr)
	}

	if m.config.Vacuum {
		if vacErr := Vacuum(m.db); vacErr != nil {
			m.log.Warnf("VACUUM failed: %v", vacErr)
			if err == nil {
				err = fmt.Errorf("VACUUM failed: %w", vacErr)
			}
		} else {
			vacuumRuns.Inc()
		}
	}

	sizeAfter, sizeErr = DBTotalSize(m.dbPath)
	if sizeErr != nil {
		m.log.Warnf("Failed to get DB size: %v", sizeErr)
	}

	if err != nil {
		m.log.Warnf("Maintenance completed with errors in %v: %v", time.Since(start), err)
		return err
	}

	m.log.Infof("Maintenance completed in %v", time.Since(start))
	if sizeBefore > sizeAfter {
		m.log.Infof("Maintenance reclaimed %d MB", common.BytesToMB(uint64(sizeBefore-sizeAfter)))
	}

	return nil
}

func (m *SQLiteMaintenance) walCheckpoint(ctx context.Context) error {
	isWAL, err := m.isWALMode(ctx)
	if err != nil {
		return fmt.Errorf("failed to check journal mode: %w", err)
	}

	if !isWAL {
		m.log.Debug("Database not in WAL mode, skipping WAL checkpoint")
		return nil
	}

	checkpointSQL := fmt.Sprintf("PRAGMA wal_checkpoint(%s)", m.config.WALCheckpointMode)

	var busyCount, logFrames, checkpointedFrames int
	err = m.db.QueryRowContext(ctx, checkpointSQL).Scan(&busyCount, &logFrames, &checkpointedFrames)
	if err != nil {
		return fmt.Errorf("failed to execute WAL checkpoint: %w", err)
	}

	m.log.Debugf("WAL checkpoint complete - mode: %s, busy: %d, log_frames: %d, checkpointed: %d",
		m.config.WALCheckpointMode, busyCount, logFrames, checkpointedFrames)

	observeWALCheckpoint(strings.ToLower(m.config.WALCheckpointMode), busyCount)

	if busyCount > 0 {
		m.log.Warnf("WAL checkpoint encountered %d busy pages (some pages not checkpointed)", busyCount)
	}

	return nil
}

func (m *SQLiteMaintenance) isWALMode(ctx context.Context) (bool, error) {
	var mode string
	if err := m.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
		return false, err
	}
	return strings.EqualFold(mode, "wal"), nil
}

// GetMetrics returns current maintenance metrics.
func (m *SQLiteMaintenance) GetMetrics() MaintenanceMetrics {
	m.metricsLock.Lock()
	defer m.metricsLock.Unlock()

	return MaintenanceMetrics{
		LastMaintenanceTime:  m.lastMaintenanceTime,
		MaintenanceCount:     m.maintenanceCount,
		LastMaintenanceError: m.lastMaintenanceErr,
	}
}

// MaintenanceMetrics provides visibility into maintenance operations.
type MaintenanceMetrics struct {
	LastMaintenanceTime  time.Time
	MaintenanceCount     uint64
	LastMaintenanceError error
}

// Vacuum rebuilds the database file to reclaim free pages.
func Vacuum(db *sql.DB) error {
	if _, err := db.Exec("VACUUM"); err != nil {
		if strings.Contains(err.Error(), "database is locked") {
			return fmt.Errorf("cannot vacuum: database is locked (retry later)")
		}
		return fmt.Errorf("vacuum failed: %w", err)
	}
	return nil
}
