package shortlink

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultHit      = "hit"
	resultMiss     = "miss"
	resultError    = "error"
	resultSuccess  = "success"
	resultReverted = "reverted"
)

var (
	resolves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_shortlink_resolves_total",
			Help: "Total number of on-chain link lookups by result",
		},
		[]string{"result"},
	)

	writes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_shortlink_writes_total",
			Help: "Total number of link transactions by result",
		},
		[]string{"result"},
	)

	writesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bbscache_shortlink_writes_in_flight",
			Help: "Number of link transactions waiting for a receipt",
		},
	)

	limiterWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bbscache_shortlink_limiter_wait_seconds",
			Help:    "Time a link write waited for the limiter",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)
