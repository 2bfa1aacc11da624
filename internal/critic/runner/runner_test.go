package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbiter/internal/critic"
	"arbiter/internal/domain"
)

type fakeEvaluator struct {
	name    string
	verdict domain.Verdict
	err     error
	delay   time.Duration
	panics  bool
}

func (f *fakeEvaluator) Name() string { return f.name }

func (f *fakeEvaluator) Evaluate(ctx context.Context, _ domain.Case) (domain.CriticOutput, error) {
	if f.panics {
		panic("evaluator bug")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return domain.CriticOutput{}, ctx.Err()
		}
	}
	if f.err != nil {
		return domain.CriticOutput{}, f.err
	}
	return domain.CriticOutput{CriticName: f.name, Verdict: f.verdict, Confidence: 0.9}, nil
}

func newRunner(timeout time.Duration, weights map[string]float64) *Runner {
	return New(Config{
		MaxParallelism: 4,
		Timeout:        timeout,
		WeightFor: func(name string) float64 {
			if w, ok := weights[name]; ok {
				return w
			}
			return 1.0
		},
	}, nil, nil)
}

func TestRun_OneOutputPerEvaluator(t *testing.T) {
	r := newRunner(time.Second, nil)
	evaluators := []critic.Evaluator{
		&fakeEvaluator{name: "a", verdict: domain.VerdictAllow},
		&fakeEvaluator{name: "b", verdict: domain.VerdictDeny},
		&fakeEvaluator{name: "c", verdict: domain.VerdictReview},
	}

	outputs := r.Run(context.Background(), domain.Case{ID: "c1", Text: "x"}, evaluators)
	require.Len(t, outputs, 3)
	assert.Equal(t, domain.VerdictAllow, outputs[0].Verdict)
	assert.Equal(t, domain.VerdictDeny, outputs[1].Verdict)
	assert.Equal(t, domain.VerdictReview, outputs[2].Verdict)
}

func TestRun_FailureIsolatedFromHealthyCritics(t *testing.T) {
	r := newRunner(time.Second, nil)
	evaluators := []critic.Evaluator{
		&fakeEvaluator{name: "ok", verdict: domain.VerdictAllow},
		&fakeEvaluator{name: "broken", err: errors.New("backend down")},
	}

	outputs := r.Run(context.Background(), domain.Case{ID: "c1", Text: "x"}, evaluators)
	require.Len(t, outputs, 2)

	assert.False(t, outputs[0].Failed())
	assert.Equal(t, domain.VerdictAllow, outputs[0].Verdict)

	assert.True(t, outputs[1].Failed())
	assert.Equal(t, domain.VerdictReview, outputs[1].Verdict)
	assert.Zero(t, outputs[1].Confidence)
}

func TestRun_PanicBecomesDegradedOutput(t *testing.T) {
	r := newRunner(time.Second, nil)
	evaluators := []critic.Evaluator{
		&fakeEvaluator{name: "panicky", panics: true},
		&fakeEvaluator{name: "ok", verdict: domain.VerdictAllow},
	}

	outputs := r.Run(context.Background(), domain.Case{ID: "c1", Text: "x"}, evaluators)
	require.Len(t, outputs, 2)
	assert.True(t, outputs[0].Failed())
	assert.Contains(t, outputs[0].Err, "panic")
	assert.False(t, outputs[1].Failed())
}

func TestRun_SlowCriticTimesOutWithZeroWeight(t *testing.T) {
	r := newRunner(50*time.Millisecond, map[string]float64{"slow": 2.0, "fast": 1.5})
	evaluators := []critic.Evaluator{
		&fakeEvaluator{name: "slow", verdict: domain.VerdictBlock, delay: 5 * time.Second},
		&fakeEvaluator{name: "fast", verdict: domain.VerdictAllow},
	}

	start := time.Now()
	outputs := r.Run(context.Background(), domain.Case{ID: "c1", Text: "x"}, evaluators)
	assert.Less(t, time.Since(start), time.Second, "deadline must bound the fan-out")

	require.Len(t, outputs, 2)
	assert.True(t, outputs[0].Failed())
	assert.Equal(t, "timeout", outputs[0].Err)
	assert.Zero(t, outputs[0].Weight, "timed-out critics carry no weight")

	assert.False(t, outputs[1].Failed())
	assert.InDelta(t, 1.5, outputs[1].Weight, 1e-9)
}

func TestRun_WeightsAndPrioritiesApplied(t *testing.T) {
	r := New(Config{
		MaxParallelism: 2,
		Timeout:        time.Second,
		WeightFor:      func(string) float64 { return 2.5 },
		PriorityFor:    func(string) domain.Priority { return domain.PriorityOverride },
	}, nil, nil)

	outputs := r.Run(context.Background(), domain.Case{ID: "c1", Text: "x"},
		[]critic.Evaluator{&fakeEvaluator{name: "a", verdict: domain.VerdictAllow}})
	require.Len(t, outputs, 1)
	assert.InDelta(t, 2.5, outputs[0].Weight, 1e-9)
	assert.Equal(t, domain.PriorityOverride, outputs[0].Priority)
}

func TestRun_NoEvaluators(t *testing.T) {
	r := newRunner(time.Second, nil)

	outputs := r.Run(context.Background(), domain.Case{ID: "c1", Text: "x"}, nil)
	assert.Empty(t, outputs)
}
