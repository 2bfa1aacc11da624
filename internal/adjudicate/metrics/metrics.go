package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the adjudication pipeline.
type Metrics struct {
	Decisions   *prometheus.CounterVec
	Conflicts   prometheus.Counter
	Escalations prometheus.Counter
	Duration    prometheus.Histogram
}

// New creates and registers all adjudication metrics.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "arbiter_decisions_total",
			Help: "Decisions by overall verdict",
		}, []string{"verdict"}),
		Conflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "arbiter_conflicts_total",
			Help: "Decisions with irreconcilable critic disagreement",
		}),
		Escalations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "arbiter_escalations_total",
			Help: "Human escalations recorded",
		}),
		Duration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "arbiter_adjudication_duration_seconds",
			Help:    "End-to-end pipeline latency for uncached cases",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
