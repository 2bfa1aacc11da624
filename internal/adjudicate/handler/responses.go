package handler

import (
	"time"

	"arbiter/internal/adjudicate"
	"arbiter/internal/domain"
	"arbiter/internal/ledger"
)

// AdjudicateResponse is the HTTP response for POST /adjudicate.
type AdjudicateResponse struct {
	DecisionID       string                 `json:"decision_id"`
	CaseID           string                 `json:"case_id"`
	OverallVerdict   string                 `json:"overall_verdict"`
	AvgConfidence    float64                `json:"avg_confidence"`
	Reason           string                 `json:"reason"`
	VerdictScores    map[string]float64     `json:"verdict_scores"`
	ConflictDetected bool                   `json:"conflict_detected"`
	Escalate         bool                   `json:"escalate"`
	CriticOutputs    []domain.CriticOutput  `json:"critic_outputs"`
	Timestamp        time.Time              `json:"timestamp"`
	FromCache        bool                   `json:"from_cache"`
	LedgerEntryID    string                 `json:"ledger_entry_id,omitempty"`
}

// EscalateResponse is the HTTP response for POST /escalate.
type EscalateResponse struct {
	EntryID    string `json:"entry_id"`
	CaseID     string `json:"case_id"`
	RefEntryID string `json:"ref_entry_id"`
	Verdict    string `json:"verdict"`
	KeyVersion int    `json:"key_version"`
}

// FromResult converts an orchestrator result to its HTTP shape.
func FromResult(result *adjudicate.Result) *AdjudicateResponse {
	d := result.Decision
	scores := make(map[string]float64, len(d.VerdictScores))
	for v, s := range d.VerdictScores {
		scores[string(v)] = s
	}
	return &AdjudicateResponse{
		DecisionID:       d.ID,
		CaseID:           d.CaseID,
		OverallVerdict:   string(d.OverallVerdict),
		AvgConfidence:    d.AvgConfidence,
		Reason:           d.Reason,
		VerdictScores:    scores,
		ConflictDetected: d.ConflictDetected,
		Escalate:         d.Escalate,
		CriticOutputs:    d.CriticOutputs,
		Timestamp:        d.Timestamp,
		FromCache:        result.FromCache,
		LedgerEntryID:    result.LedgerEntry.ID,
	}
}

// FromEscalation converts the new ledger entry to its HTTP shape.
func FromEscalation(e ledger.Entry) *EscalateResponse {
	return &EscalateResponse{
		EntryID:    e.ID,
		CaseID:     e.CaseID,
		RefEntryID: e.RefEntryID,
		Verdict:    string(e.Verdict),
		KeyVersion: e.KeyVersion,
	}
}
