package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbiter/internal/domain"
	dErrors "arbiter/pkg/domain-errors"
)

func newAggregator() *Aggregator {
	return New(domain.DefaultGovernanceRules(), 0.1)
}

func out(name string, v domain.Verdict, conf, weight float64) domain.CriticOutput {
	return domain.CriticOutput{
		CriticName: name,
		Verdict:    v,
		Confidence: conf,
		Weight:     weight,
		Priority:   domain.PriorityNormal,
	}
}

func TestAggregate_EmptyOutputs(t *testing.T) {
	d, err := newAggregator().Aggregate("case-1", nil, "")
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictReview, d.OverallVerdict)
	assert.Equal(t, ReasonNoResults, d.Reason)
	assert.True(t, d.Escalate)
	assert.Zero(t, d.AvgConfidence)
}

func TestAggregate_WeightedConsensus(t *testing.T) {
	outputs := []domain.CriticOutput{
		out("safety", domain.VerdictAllow, 0.9, 2.0),
		out("fairness", domain.VerdictAllow, 0.8, 1.0),
		out("policy", domain.VerdictDeny, 0.7, 1.0),
	}

	d, err := newAggregator().Aggregate("case-1", outputs, "")
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictAllow, d.OverallVerdict)
	assert.InDelta(t, 2.6, d.VerdictScores[domain.VerdictAllow], 1e-9)
	assert.InDelta(t, 0.7, d.VerdictScores[domain.VerdictDeny], 1e-9)
	assert.InDelta(t, 0.8, d.AvgConfidence, 1e-9)
	assert.False(t, d.ConflictDetected)
}

func TestAggregate_CriticalViolationBlocksDespiteVotes(t *testing.T) {
	// A unanimous allow consensus cannot outvote a critical rights violation.
	outputs := []domain.CriticOutput{
		out("safety", domain.VerdictAllow, 1.0, 10.0),
		out("fairness", domain.VerdictAllow, 1.0, 10.0),
		{
			CriticName: "rights",
			Verdict:    domain.VerdictReview,
			Confidence: 0.4,
			Weight:     0.1,
			Priority:   domain.PriorityNormal,
			Violations: []string{"human_dignity"},
		},
	}

	d, err := newAggregator().Aggregate("case-1", outputs, "")
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictBlock, d.OverallVerdict)
	assert.Contains(t, d.Reason, "human_dignity")
	assert.Contains(t, d.Reason, "rights")
}

func TestAggregate_NonCriticalViolationDoesNotForceBlock(t *testing.T) {
	outputs := []domain.CriticOutput{
		out("safety", domain.VerdictAllow, 0.9, 2.0),
		{
			CriticName: "rights",
			Verdict:    domain.VerdictReview,
			Confidence: 0.5,
			Weight:     1.0,
			Priority:   domain.PriorityNormal,
			Violations: []string{"transparency"},
		},
	}

	d, err := newAggregator().Aggregate("case-1", outputs, "")
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictAllow, d.OverallVerdict)
}

func TestAggregate_OverrideShortCircuits(t *testing.T) {
	outputs := []domain.CriticOutput{
		out("safety", domain.VerdictAllow, 1.0, 10.0),
		out("fairness", domain.VerdictAllow, 1.0, 10.0),
		{
			CriticName:    "constitutional",
			Verdict:       domain.VerdictDeny,
			Confidence:    0.6,
			Justification: "prohibited category",
			Weight:        0.5,
			Priority:      domain.PriorityOverride,
		},
	}

	d, err := newAggregator().Aggregate("case-1", outputs, "")
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictDeny, d.OverallVerdict)
	assert.Contains(t, d.Reason, "Override by constitutional")
}

func TestAggregate_OverridePositiveVerdictDoesNotShortCircuit(t *testing.T) {
	// Override standing only forces negative verdicts; an ALLOW from an
	// override critic goes through normal scoring.
	outputs := []domain.CriticOutput{
		{
			CriticName: "constitutional",
			Verdict:    domain.VerdictAllow,
			Confidence: 0.9,
			Weight:     1.0,
			Priority:   domain.PriorityOverride,
		},
		out("policy", domain.VerdictDeny, 0.9, 5.0),
	}

	d, err := newAggregator().Aggregate("case-1", outputs, "")
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictDeny, d.OverallVerdict)
}

func TestAggregate_CriticalViolationBeatsOverride(t *testing.T) {
	outputs := []domain.CriticOutput{
		{
			CriticName: "constitutional",
			Verdict:    domain.VerdictDeny,
			Confidence: 0.9,
			Weight:     1.0,
			Priority:   domain.PriorityOverride,
		},
		{
			CriticName: "rights",
			Verdict:    domain.VerdictReview,
			Confidence: 0.5,
			Weight:     1.0,
			Priority:   domain.PriorityNormal,
			Violations: []string{"non_discrimination"},
		},
	}

	d, err := newAggregator().Aggregate("case-1", outputs, "")
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictBlock, d.OverallVerdict)
	assert.Contains(t, d.Reason, "non_discrimination")
}

func TestAggregate_AmbiguityForcesReview(t *testing.T) {
	outputs := []domain.CriticOutput{
		out("safety", domain.VerdictAllow, 0.80, 1.0),
		out("policy", domain.VerdictDeny, 0.75, 1.0),
	}

	d, err := newAggregator().Aggregate("case-1", outputs, "")
	require.NoError(t, err)

	assert.True(t, d.ConflictDetected)
	assert.Equal(t, domain.VerdictReview, d.OverallVerdict)
	assert.True(t, d.Escalate)
	assert.Contains(t, d.Reason, "ambiguity threshold")
}

func TestAggregate_ClearMarginNoConflict(t *testing.T) {
	outputs := []domain.CriticOutput{
		out("safety", domain.VerdictAllow, 0.9, 1.0),
		out("policy", domain.VerdictDeny, 0.5, 1.0),
	}

	d, err := newAggregator().Aggregate("case-1", outputs, "")
	require.NoError(t, err)

	assert.False(t, d.ConflictDetected)
	assert.Equal(t, domain.VerdictAllow, d.OverallVerdict)
}

func TestAggregate_TieBreaksTowardRestrictive(t *testing.T) {
	// Exact tie at zero ambiguity threshold: BLOCK outranks ALLOW.
	a := New(domain.DefaultGovernanceRules(), 0)
	outputs := []domain.CriticOutput{
		out("safety", domain.VerdictAllow, 0.8, 1.0),
		out("policy", domain.VerdictBlock, 0.8, 1.0),
	}

	d, err := a.Aggregate("case-1", outputs, "")
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictBlock, d.OverallVerdict)
}

func TestAggregate_DegradedOutputsExcludedFromConfidence(t *testing.T) {
	outputs := []domain.CriticOutput{
		out("safety", domain.VerdictAllow, 0.8, 1.0),
		{
			CriticName: "flaky",
			Verdict:    domain.VerdictReview,
			Confidence: 0,
			Weight:     0,
			Priority:   domain.PriorityNormal,
			Err:        "timeout",
		},
	}

	d, err := newAggregator().Aggregate("case-1", outputs, "")
	require.NoError(t, err)

	assert.InDelta(t, 0.8, d.AvgConfidence, 1e-9)
	assert.Len(t, d.CriticOutputs, 2)
}

func TestAggregate_Idempotent(t *testing.T) {
	outputs := []domain.CriticOutput{
		out("safety", domain.VerdictAllow, 0.9, 2.0),
		out("policy", domain.VerdictDeny, 0.7, 1.0),
	}

	a := newAggregator()
	first, err := a.Aggregate("case-1", outputs, "")
	require.NoError(t, err)
	second, err := a.Aggregate("case-1", outputs, "")
	require.NoError(t, err)

	assert.Equal(t, first.OverallVerdict, second.OverallVerdict)
	assert.Equal(t, first.VerdictScores, second.VerdictScores)
	assert.Equal(t, first.Reason, second.Reason)
	assert.Equal(t, first.ConflictDetected, second.ConflictDetected)
}

func TestAggregate_RejectsMalformedOutputs(t *testing.T) {
	tests := []struct {
		name    string
		outputs []domain.CriticOutput
	}{
		{"unknown verdict", []domain.CriticOutput{out("x", "MAYBE", 0.5, 1.0)}},
		{"confidence above one", []domain.CriticOutput{out("x", domain.VerdictAllow, 1.5, 1.0)}},
		{"negative confidence", []domain.CriticOutput{out("x", domain.VerdictAllow, -0.1, 1.0)}},
		{"negative weight", []domain.CriticOutput{out("x", domain.VerdictAllow, 0.5, -1.0)}},
		{"empty critic name", []domain.CriticOutput{out("", domain.VerdictAllow, 0.5, 1.0)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newAggregator().Aggregate("case-1", tc.outputs, "")
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestAggregate_ConflictingPrecedentEscalates(t *testing.T) {
	outputs := []domain.CriticOutput{
		out("safety", domain.VerdictAllow, 0.9, 2.0),
	}

	d, err := newAggregator().Aggregate("case-1", outputs, domain.PrecedentConflicting)
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictAllow, d.OverallVerdict)
	assert.True(t, d.Escalate)
	assert.Contains(t, d.Reason, "conflicts with precedent")
}

func TestAggregate_LowConfidenceEscalates(t *testing.T) {
	outputs := []domain.CriticOutput{
		out("safety", domain.VerdictAllow, 0.2, 1.0),
		out("policy", domain.VerdictAllow, 0.1, 1.0),
	}

	d, err := newAggregator().Aggregate("case-1", outputs, "")
	require.NoError(t, err)

	assert.Equal(t, domain.VerdictAllow, d.OverallVerdict)
	assert.True(t, d.Escalate)
}
