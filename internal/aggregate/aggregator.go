// Package aggregate combines critic outputs into one governed decision. The
// algorithm is deterministic, pure data transformation: rights checks are
// lexicographically prior to override checks, which are prior to weighted
// scoring, and near-ties force REVIEW instead of silently resolving.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"arbiter/internal/domain"
	dErrors "arbiter/pkg/domain-errors"
)

// ReasonNoResults is the reason recorded when no critic produced a result.
const ReasonNoResults = "No critic results available"

// Aggregator applies the governance rule set and aggregation config to critic
// outputs. It holds no mutable state; one instance serves concurrent cases.
type Aggregator struct {
	rules              []domain.GovernanceRule
	ambiguityThreshold float64
}

// New creates an aggregator. The ambiguity threshold is the single
// disagreement threshold used on every code path.
func New(rules []domain.GovernanceRule, ambiguityThreshold float64) *Aggregator {
	return &Aggregator{rules: rules, ambiguityThreshold: ambiguityThreshold}
}

// Aggregate produces the decision for a case from its critic outputs.
// precedentStatus is the optional hint from precedent retrieval ("" when
// unavailable). Malformed outputs are rejected with a typed validation error,
// never coerced.
func (a *Aggregator) Aggregate(caseID string, outputs []domain.CriticOutput, precedentStatus string) (*domain.Decision, error) {
	if err := validate(outputs); err != nil {
		return nil, err
	}

	d := &domain.Decision{
		ID:            uuid.NewString(),
		CaseID:        caseID,
		VerdictScores: zeroScores(),
		CriticOutputs: outputs,
		Timestamp:     time.Now().UTC(),
	}

	if len(outputs) == 0 {
		d.OverallVerdict = domain.VerdictReview
		d.Reason = ReasonNoResults
		d.Escalate = true
		return d, nil
	}

	scoreOutputs(d, outputs)
	d.AvgConfidence = avgConfidence(outputs)

	// Rights are lexicographically prior to everything else: a critical
	// violation blocks regardless of weights, overrides, or votes.
	if critic, right, ok := a.criticalViolation(outputs); ok {
		d.OverallVerdict = domain.VerdictBlock
		d.Reason = fmt.Sprintf("Rights violation: %s flagged by %s", right, critic)
		return d, nil
	}

	// Override-priority critics are constitutionally non-overridable on
	// negative verdicts.
	if forced, ok := overrideVerdict(outputs); ok {
		d.OverallVerdict = forced.Verdict
		d.Reason = fmt.Sprintf("Override by %s: %s", forced.CriticName, forced.Justification)
		return d, nil
	}

	top, runnerUp := topTwo(d.VerdictScores)
	d.OverallVerdict = top

	// Near-ties between different verdicts are irreconcilable disagreement;
	// they must never silently resolve to an automatic allow or block.
	if runnerUp != "" && top != runnerUp &&
		d.VerdictScores[top]-d.VerdictScores[runnerUp] < a.ambiguityThreshold {
		d.ConflictDetected = true
		d.OverallVerdict = domain.VerdictReview
		d.Reason = fmt.Sprintf("Conflicting verdicts: %s and %s scores within ambiguity threshold", top, runnerUp)
		d.Escalate = true
		return d, nil
	}

	d.Reason = fmt.Sprintf("Weighted consensus: %s (score %.3f)", d.OverallVerdict, d.VerdictScores[d.OverallVerdict])
	a.applyPrecedentHint(d, precedentStatus)
	a.applyEscalation(d)
	return d, nil
}

// validate rejects malformed outputs at the boundary.
func validate(outputs []domain.CriticOutput) error {
	for _, o := range outputs {
		if o.CriticName == "" {
			return dErrors.New(dErrors.CodeValidation, "critic output with empty critic name")
		}
		if !o.Verdict.Valid() {
			return dErrors.Newf(dErrors.CodeValidation, "critic %s: unknown verdict %q", o.CriticName, o.Verdict)
		}
		if o.Confidence < 0 || o.Confidence > 1 {
			return dErrors.Newf(dErrors.CodeValidation, "critic %s: confidence %v outside [0,1]", o.CriticName, o.Confidence)
		}
		if o.Weight < 0 {
			return dErrors.Newf(dErrors.CodeValidation, "critic %s: negative weight %v", o.CriticName, o.Weight)
		}
	}
	return nil
}

func zeroScores() map[domain.Verdict]float64 {
	return map[domain.Verdict]float64{
		domain.VerdictAllow:  0,
		domain.VerdictBlock:  0,
		domain.VerdictReview: 0,
		domain.VerdictDeny:   0,
	}
}

// scoreOutputs fills the weighted verdict scores. Degraded outputs contribute
// nothing (their confidence is zero), but they remain in the record.
func scoreOutputs(d *domain.Decision, outputs []domain.CriticOutput) {
	for _, o := range outputs {
		d.VerdictScores[o.Verdict] += o.Confidence * o.Weight
	}
}

// avgConfidence averages confidence over non-error outputs only.
func avgConfidence(outputs []domain.CriticOutput) float64 {
	var sum float64
	var n int
	for _, o := range outputs {
		if o.Failed() {
			continue
		}
		sum += o.Confidence
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// criticalViolation finds the first output whose violations include a right
// governed by a critical-severity rule. Outputs are scanned in order; ties on
// multiple violations are irrelevant since any critical violation blocks.
func (a *Aggregator) criticalViolation(outputs []domain.CriticOutput) (criticName, right string, found bool) {
	critical := make(map[string]bool, len(a.rules))
	for _, r := range a.rules {
		if r.Severity == domain.SeverityCritical {
			critical[r.RightName] = true
		}
	}
	for _, o := range outputs {
		for _, v := range o.Violations {
			if critical[v] {
				return o.CriticName, v, true
			}
		}
	}
	return "", "", false
}

// overrideVerdict returns the forcing output when an override-priority critic
// voted BLOCK or DENY. Among multiple overriding outputs the most restrictive
// verdict wins.
func overrideVerdict(outputs []domain.CriticOutput) (domain.CriticOutput, bool) {
	var forced *domain.CriticOutput
	for i, o := range outputs {
		if o.Priority != domain.PriorityOverride || o.Failed() {
			continue
		}
		if o.Verdict != domain.VerdictBlock && o.Verdict != domain.VerdictDeny {
			continue
		}
		if forced == nil || domain.MoreRestrictive(o.Verdict, forced.Verdict) == o.Verdict && o.Verdict != forced.Verdict {
			forced = &outputs[i]
		}
	}
	if forced == nil {
		return domain.CriticOutput{}, false
	}
	return *forced, true
}

// topTwo returns the highest and second-highest scoring verdicts. Score ties
// break toward the more restrictive verdict.
func topTwo(scores map[domain.Verdict]float64) (domain.Verdict, domain.Verdict) {
	verdicts := make([]domain.Verdict, 0, len(scores))
	for v := range scores {
		verdicts = append(verdicts, v)
	}
	sort.Slice(verdicts, func(i, j int) bool {
		si, sj := scores[verdicts[i]], scores[verdicts[j]]
		if si != sj {
			return si > sj
		}
		return domain.MoreRestrictive(verdicts[i], verdicts[j]) == verdicts[i]
	})
	if len(verdicts) < 2 {
		return verdicts[0], ""
	}
	return verdicts[0], verdicts[1]
}

// applyPrecedentHint folds the precedent consistency hint into the reason.
func (a *Aggregator) applyPrecedentHint(d *domain.Decision, status string) {
	switch status {
	case domain.PrecedentConflicting:
		d.Reason += "; conflicts with precedent"
		d.Escalate = true
	case domain.PrecedentNovel:
		d.Reason += "; no precedent found"
	case domain.PrecedentConsistent:
		d.Reason += "; consistent with precedent"
	}
}

// applyEscalation flags decisions a human should look at: review verdicts and
// weak consensus.
func (a *Aggregator) applyEscalation(d *domain.Decision) {
	if d.OverallVerdict == domain.VerdictReview {
		d.Escalate = true
	}
	if d.AvgConfidence < 0.3 {
		d.Escalate = true
	}
}
