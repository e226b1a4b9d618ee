package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics
	dbQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"table", "operation"},
	)

	dbQueryTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bbscache_db_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"table", "operation"},
	)

	dbErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_db_errors_total",
			Help: "Total number of database errors",
		},
		[]string{"table", "operation"},
	)

	// Sync metrics
	Checkpoint = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bbscache_checkpoint_block",
			Help: "The checkpoint stored after the last successful pass",
		},
		[]string{"stream"},
	)

	WindowsScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_windows_scanned_total",
			Help: "Total number of block windows queried",
		},
		[]string{"stream"},
	)

	EventsScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_events_scanned_total",
			Help: "Total number of events returned by window scans",
		},
		[]string{"stream"},
	)

	RecordsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_records_created_total",
			Help: "Total number of records created",
		},
		[]string{"stream"},
	)

	RecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_records_skipped_total",
			Help: "Total number of records skipped after a persistence error",
		},
		[]string{"stream"},
	)

	PassDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bbscache_pass_duration_seconds",
			Help:    "Time taken by one sync pass of a stream",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"stream"},
	)

	Passes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_passes_total",
			Help: "Total number of sync passes by stream and result",
		},
		[]string{"stream", "result"},
	)

	// System metrics
	Uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bbscache_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)

	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_errors_total",
			Help: "Total number of errors by component and severity",
		},
		[]string{"component", "severity"},
	)

	ComponentHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bbscache_component_health",
			Help: "Component health status (1=healthy, 0=unhealthy)",
		},
		[]string{"component"},
	)

	Goroutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bbscache_goroutines",
			Help: "Number of active goroutines",
		},
	)

	MemoryUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bbscache_memory_usage_bytes",
			Help: "Memory usage statistics",
		},
		[]string{"type"},
	)

	startTime = time.Now()
)

// Pass results
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Error severities
const (
	SeverityFatal   = "fatal"
	SeverityWarning = "warning"
)

func DBQueryInc(table string, operation string) {
	dbQueries.WithLabelValues(table, operation).Inc()
}

func DBQueryDuration(table string, operation string, duration time.Duration) {
	dbQueryTime.WithLabelValues(table, operation).Observe(duration.Seconds())
}

func DBErrorsInc(table string, operation string) {
	dbErrors.WithLabelValues(table, operation).Inc()
}

// DBObserve records one query: count, duration and error.
func DBObserve(table, operation string, start time.Time, err error) {
	DBQueryInc(table, operation)
	DBQueryDuration(table, operation, time.Since(start))
	if err != nil {
		DBErrorsInc(table, operation)
	}
}

func CheckpointSet(stream string, height uint64) {
	Checkpoint.WithLabelValues(stream).Set(float64(height))
}

func WindowsScannedInc(stream string, count int) {
	WindowsScanned.WithLabelValues(stream).Add(float64(count))
}

func EventsScannedInc(stream string, count int) {
	EventsScanned.WithLabelValues(stream).Add(float64(count))
}

func RecordsCreatedInc(stream string) {
	RecordsCreated.WithLabelValues(stream).Inc()
}

func RecordsSkippedInc(stream string) {
	RecordsSkipped.WithLabelValues(stream).Inc()
}

func PassDurationLog(stream string, duration time.Duration) {
	PassDuration.WithLabelValues(stream).Observe(duration.Seconds())
}

func PassesInc(stream string, result string) {
	Passes.WithLabelValues(stream, result).Inc()
}

func ErrorsInc(component string, severity string) {
	Errors.WithLabelValues(component, severity).Inc()
}

func ComponentHealthSet(component string, healthy bool) {
	boolAsFloat := float64(1)
	if !healthy {
		boolAsFloat = 0
	}

	ComponentHealth.WithLabelValues(component).Set(boolAsFloat)
}

// UpdateSystemMetrics updates runtime system metrics.
// This should be called periodically (e.g., every 15 seconds).
func UpdateSystemMetrics() {
	// Update uptime
	Uptime.Set(time.Since(startTime).Seconds())

	// Update goroutine count
	Goroutines.Set(float64(runtime.NumGoroutine()))

	// Update memory statistics
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	MemoryUsage.WithLabelValues("alloc").Set(float64(m.Alloc))
	MemoryUsage.WithLabelValues("total_alloc").Set(float64(m.TotalAlloc))
	MemoryUsage.WithLabelValues("sys").Set(float64(m.Sys))
	MemoryUsage.WithLabelValues("heap_inuse").Set(float64(m.HeapInuse))
}
