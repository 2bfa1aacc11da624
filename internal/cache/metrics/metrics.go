package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the decision cache.
type Metrics struct {
	Hits      prometheus.Counter
	Misses    *prometheus.CounterVec
	Evictions prometheus.Counter
}

// New creates and registers all cache metrics.
func New() *Metrics {
	return &Metrics{
		Hits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "arbiter_cache_hits_total",
			Help: "Decision cache hits",
		}),
		Misses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "arbiter_cache_misses_total",
			Help: "Decision cache misses by reason (absent, stale, expired)",
		}, []string{"reason"}),
		Evictions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "arbiter_cache_evictions_total",
			Help: "Entries evicted by the in-memory LRU at capacity",
		}),
	}
}
