package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the audit ledger.
type Metrics struct {
	Appended       *prometheus.CounterVec
	AppendFailures prometheus.Counter
	VerifyFailures prometheus.Counter
	SpillDepth     prometheus.Gauge
}

// New creates and registers all ledger metrics.
func New() *Metrics {
	return &Metrics{
		Appended: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "arbiter_ledger_entries_appended_total",
			Help: "Ledger entries appended by kind",
		}, []string{"kind"}),
		AppendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "arbiter_ledger_append_failures_total",
			Help: "Ledger appends that failed and were spilled",
		}),
		VerifyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "arbiter_ledger_verify_failures_total",
			Help: "Entries whose signature did not verify",
		}),
		SpillDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "arbiter_ledger_spill_depth",
			Help: "Entries waiting in the spill queue for re-append",
		}),
	}
}
