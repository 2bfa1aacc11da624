package domain

// Severity ranks how grave a governance rule violation is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityModerate Severity = "moderate"
	SeverityLow      Severity = "low"
)

// GovernanceRule declares one right in the rights hierarchy. Critical rules are
// inviolable: a matching violation cannot be outvoted by aggregate confidence.
// This is static configuration with no control flow of its own.
type GovernanceRule struct {
	RightName string   `json:"right_name"`
	Required  bool     `json:"required"`
	Severity  Severity `json:"severity"`
}

// DefaultGovernanceRules is the baseline rights hierarchy applied when the
// deployment supplies none of its own.
func DefaultGovernanceRules() []GovernanceRule {
	return []GovernanceRule{
		{RightName: "human_dignity", Required: true, Severity: SeverityCritical},
		{RightName: "non_discrimination", Required: true, Severity: SeverityCritical},
		{RightName: "privacy", Required: true, Severity: SeverityHigh},
		{RightName: "due_process", Required: false, Severity: SeverityModerate},
		{RightName: "transparency", Required: false, Severity: SeverityLow},
	}
}
