package critic

import (
	"context"
	"fmt"
	"time"

	"arbiter/internal/domain"
)

// ThresholdCritic judges a numeric risk score supplied in the case context.
// Integrators that pre-compute risk upstream use it to fold that signal into
// the governed decision instead of gating outside the pipeline.
type ThresholdCritic struct {
	name       string
	contextKey string
	blockAt    float64
	reviewAt   float64
}

// NewThresholdCritic builds a critic reading contextKey from the case context.
// Scores >= blockAt vote BLOCK, >= reviewAt vote REVIEW, otherwise ALLOW.
func NewThresholdCritic(name, contextKey string, blockAt, reviewAt float64) *ThresholdCritic {
	return &ThresholdCritic{name: name, contextKey: contextKey, blockAt: blockAt, reviewAt: reviewAt}
}

func (t *ThresholdCritic) Name() string { return t.name }

func (t *ThresholdCritic) Evaluate(ctx context.Context, c domain.Case) (domain.CriticOutput, error) {
	start := time.Now()

	out := domain.CriticOutput{
		CriticName: t.name,
		Verdict:    domain.VerdictAllow,
		Confidence: 0.5,
	}

	raw, ok := c.Context[t.contextKey]
	if !ok {
		// Absent signal is not a failure; the critic abstains with a weak allow.
		out.Justification = fmt.Sprintf("no %q signal in case context", t.contextKey)
		out.Confidence = 0.3
		out.Elapsed = time.Since(start)
		return out, nil
	}

	score, ok := toFloat(raw)
	if !ok {
		return domain.CriticOutput{}, fmt.Errorf("context key %q is not numeric: %T", t.contextKey, raw)
	}

	switch {
	case score >= t.blockAt:
		out.Verdict = domain.VerdictBlock
		out.Confidence = 0.9
		out.Justification = fmt.Sprintf("risk score %.2f >= block threshold %.2f", score, t.blockAt)
	case score >= t.reviewAt:
		out.Verdict = domain.VerdictReview
		out.Confidence = 0.7
		out.Justification = fmt.Sprintf("risk score %.2f >= review threshold %.2f", score, t.reviewAt)
	default:
		out.Confidence = 0.8
		out.Justification = fmt.Sprintf("risk score %.2f below thresholds", score)
	}

	out.Elapsed = time.Since(start)
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
