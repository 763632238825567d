package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trekmate_upstream_calls_total",
			Help: "Total geocoding and forecast provider calls",
		},
		[]string{"upstream", "status"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trekmate_upstream_latency_seconds",
			Help:    "Geocoding and forecast provider latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"upstream"},
	)

	ResponseCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trekmate_response_cache_total",
			Help: "Upstream response cache lookups by result (hit, miss, error)",
		},
		[]string{"upstream", "result"},
	)

	CompletionCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trekmate_completion_calls_total",
			Help: "Total language model completion calls",
		},
		[]string{"status"},
	)

	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trekmate_turns_total",
			Help: "Conversation turns by phase and outcome",
		},
		[]string{"phase", "outcome"},
	)
)
