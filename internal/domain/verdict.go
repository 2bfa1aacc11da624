package domain

// Verdict is the judgment a critic (or the aggregated decision) assigns to a case.
type Verdict string

const (
	VerdictAllow  Verdict = "ALLOW"
	VerdictBlock  Verdict = "BLOCK"
	VerdictReview Verdict = "REVIEW"
	VerdictDeny   Verdict = "DENY"
)

// restrictiveness orders verdicts for tie-breaking. Higher wins a tie so that
// near-equal scores never silently resolve to the more permissive outcome.
var restrictiveness = map[Verdict]int{
	VerdictBlock:  3,
	VerdictDeny:   2,
	VerdictReview: 1,
	VerdictAllow:  0,
}

// Valid reports whether v is one of the four known verdicts.
func (v Verdict) Valid() bool {
	_, ok := restrictiveness[v]
	return ok
}

// MoreRestrictive returns the stricter of two verdicts (BLOCK > DENY > REVIEW > ALLOW).
func MoreRestrictive(a, b Verdict) Verdict {
	if restrictiveness[a] >= restrictiveness[b] {
		return a
	}
	return b
}

// Priority classifies a critic's standing in the aggregation hierarchy.
type Priority string

const (
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
	// PriorityOverride marks critics whose negative verdict bypasses weighted
	// aggregation entirely (rights and safety critics).
	PriorityOverride Priority = "override"
	PriorityAdvisory Priority = "advisory"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNormal, PriorityHigh, PriorityCritical, PriorityOverride, PriorityAdvisory:
		return true
	}
	return false
}
