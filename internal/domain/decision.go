package domain

import "time"

// CriticOutput is one critic's judgment of one case. Failures are first-class:
// a failed or timed-out critic still produces an output, with Err set, rather
// than disappearing from the decision record.
type CriticOutput struct {
	CriticName    string        `json:"critic_name"`
	Verdict       Verdict       `json:"verdict"`
	Confidence    float64       `json:"confidence"`
	Justification string        `json:"justification,omitempty"`
	Weight        float64       `json:"weight"`
	Priority      Priority      `json:"priority"`
	Elapsed       time.Duration `json:"elapsed_ms"`
	// Violations lists the right names this critic found violated. The
	// aggregator matches them against the governance rule set.
	Violations []string `json:"violations,omitempty"`
	Err        string   `json:"error,omitempty"`
}

// Failed reports whether this output represents a degraded critic call.
func (o CriticOutput) Failed() bool {
	return o.Err != ""
}

// Decision is the aggregated, governed outcome for a case. It is produced
// exactly once per adjudication and immutable thereafter; the ledger and cache
// own copies from then on.
type Decision struct {
	ID               string              `json:"decision_id"`
	CaseID           string              `json:"case_id"`
	OverallVerdict   Verdict             `json:"overall_verdict"`
	AvgConfidence    float64             `json:"avg_confidence"`
	Reason           string              `json:"reason"`
	VerdictScores    map[Verdict]float64 `json:"verdict_scores"`
	ConflictDetected bool                `json:"conflict_detected"`
	Escalate         bool                `json:"escalate"`
	CriticOutputs    []CriticOutput      `json:"critic_outputs"`
	Timestamp        time.Time           `json:"timestamp"`
}
