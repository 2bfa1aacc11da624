package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for critic execution.
type Metrics struct {
	Evaluations     *prometheus.CounterVec
	Failures        *prometheus.CounterVec
	Latency         *prometheus.HistogramVec
	BreakerOpened   *prometheus.CounterVec
	TimeoutsTotal   prometheus.Counter
	PanicsRecovered prometheus.Counter
}

// New creates and registers all critic metrics.
func New() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "arbiter_critic_evaluations_total",
			Help: "Critic evaluations by critic name and verdict",
		}, []string{"critic", "verdict"}),
		Failures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "arbiter_critic_failures_total",
			Help: "Degraded critic outputs by critic name",
		}, []string{"critic"}),
		Latency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "arbiter_critic_latency_seconds",
			Help:    "Per-critic evaluation latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"critic"}),
		BreakerOpened: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "arbiter_critic_breaker_opened_total",
			Help: "Circuit breaker open transitions by critic name",
		}, []string{"critic"}),
		TimeoutsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "arbiter_critic_timeouts_total",
			Help: "Critic evaluations abandoned at the fan-out deadline",
		}),
		PanicsRecovered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "arbiter_critic_panics_recovered_total",
			Help: "Panics recovered at the critic boundary",
		}),
	}
}

// ObserveEvaluation records one completed critic call.
func (m *Metrics) ObserveEvaluation(critic, verdict string, elapsed time.Duration) {
	m.Evaluations.WithLabelValues(critic, verdict).Inc()
	m.Latency.WithLabelValues(critic).Observe(elapsed.Seconds())
}
