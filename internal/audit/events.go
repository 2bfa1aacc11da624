// Package audit emits operational events about adjudications to Kafka for
// downstream consumers (dashboards, alerting, offline analysis). These events
// are observability, not the system of record; the signed ledger is.
package audit

import "time"

// Event types.
const (
	TypeDecided     = "case.decided"
	TypeEscalated   = "case.escalated"
	TypeCacheHit    = "case.cache_hit"
	TypeSweepFailed = "ledger.sweep_failed"
)

// Event is one operational audit event.
type Event struct {
	Type       string    `json:"type"`
	CaseID     string    `json:"case_id,omitempty"`
	DecisionID string    `json:"decision_id,omitempty"`
	Verdict    string    `json:"verdict,omitempty"`
	Escalated  bool      `json:"escalated,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Subject    string    `json:"subject,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
