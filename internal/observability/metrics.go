// Package observability holds the Prometheus metric inventory and the
// OpenTelemetry tracing setup.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibepress_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"operation"})

	// CacheOutcomes counts cache-aside lookups by outcome (hit or miss).
	CacheOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibepress_cache_outcomes_total",
		Help: "Cache-aside lookups by outcome",
	}, []string{"outcome"})

	// LikeToggles counts like toggles by resulting state.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vibepress_like_toggles_total",
		Help: "Like toggles by resulting state (liked or unliked)",
	}, []string{"state"})
)
