package rpc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Call kinds. Reads are retried and throttled, writes and receipt polls never are.
const (
	kindRead    = "read"
	kindWrite   = "write"
	kindReceipt = "receipt"
)

var (
	rpcCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_rpc_calls_total",
			Help: "Chain RPC calls made by the cache, by kind and method",
		},
		[]string{"kind", "method"},
	)

	rpcFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_rpc_failures_total",
			Help: "Failed chain RPC calls by kind, method and classified reason",
		},
		[]string{"kind", "method", "reason"},
	)

	rpcLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bbscache_rpc_call_duration_seconds",
			Help:    "Latency of chain RPC calls, throttling excluded",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind", "method"},
	)

	rpcRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bbscache_rpc_retries_total",
			Help: "Read retries after a transient failure, by method",
		},
		[]string{"method"},
	)

	rpcThrottled = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bbscache_rpc_throttle_wait_seconds",
			Help:    "Time reads waited for the chain.reads_per_second throttle",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
	)
)

// observeCall records one finished call. A nil err counts as success.
func observeCall(kind, method string, start time.Time, err error) {
	rpcCalls.WithLabelValues(kind, method).Inc()
	rpcLatency.WithLabelValues(kind, method).Observe(time.Since(start).Seconds())
	if err != nil {
		rpcFailures.WithLabelValues(kind, method, errorType(err)).Inc()
	}
}

func RPCRetryInc(method string) {
	rpcRetries.WithLabelValues(method).Inc()
}
