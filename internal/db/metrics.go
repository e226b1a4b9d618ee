package db

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	maintenanceRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_maintenance_runs_total",
			Help: "Total number of maintenance runs after a cache pass, by outcome",
		},
		[]string{"outcome"},
	)

	maintenanceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bbscache_maintenance_duration_seconds",
			Help:    "Duration of maintenance runs",
			Buckets: prometheus.DefBuckets,
		},
	)

	maintenanceLastRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bbscache_maintenance_last_run_timestamp",
			Help: "Unix timestamp of the last maintenance run",
		},
	)

	maintenanceReclaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bbscache_maintenance_reclaimed_bytes_total",
			Help: "Bytes reclaimed by maintenance runs",
		},
	)

	walCheckpoints = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_wal_checkpoints_total",
			Help: "Total number of WAL checkpoints by mode",
		},
		[]string{"mode"},
	)

	walBusyPages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bbscache_wal_checkpoint_busy_pages_total",
			Help: "Pages a WAL checkpoint could not copy because readers held them",
		},
	)

	vacuumRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bbscache_vacuum_total",
			Help: "Total number of successful VACUUM runs",
		},
	)

	dbSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bbscache_db_size_bytes",
			Help: "SQLite file size including WAL and shared memory files",
		},
	)
)

// observeMaintenance records one finished maintenance run.
func observeMaintenance(start time.Time, err error, sizeBefore, sizeAfter int64) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}

	maintenanceRuns.WithLabelValues(outcome).Inc()
	maintenanceDuration.Observe(time.Since(start).Seconds())
	maintenanceLastRun.Set(float64(time.Now().Unix()))

	if sizeAfter > 0 {
		dbSize.Set(float64(sizeAfter))
	}
	if err == nil && sizeBefore > sizeAfter {
		maintenanceReclaimed.Add(float64(sizeBefore - sizeAfter))
	}
}

func observeWALCheckpoint(mode string, busyPages int) {
	walCheckpoints.WithLabelValues(mode).Inc()
	if busyPages > 0 {
		walBusyPages.Add(float64(busyPages))
	}
}
