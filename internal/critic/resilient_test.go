package critic

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arbiter/internal/domain"
	"arbiter/pkg/platform/circuit"
)

type scriptedEvaluator struct {
	name     string
	calls    atomic.Int64
	failFor  int64
	response domain.CriticOutput
}

func (s *scriptedEvaluator) Name() string { return s.name }

func (s *scriptedEvaluator) Evaluate(context.Context, domain.Case) (domain.CriticOutput, error) {
	n := s.calls.Add(1)
	if n <= s.failFor {
		return domain.CriticOutput{}, errors.New("transient failure")
	}
	return s.response, nil
}

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestResilient_RetriesThenSucceeds(t *testing.T) {
	inner := &scriptedEvaluator{
		name:     "flaky",
		failFor:  2,
		response: domain.CriticOutput{CriticName: "flaky", Verdict: domain.VerdictAllow, Confidence: 0.8},
	}
	r := NewResilient(inner, circuit.New("flaky"), fastRetry(3), nil)

	out, err := r.Evaluate(context.Background(), domain.Case{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictAllow, out.Verdict)
	assert.EqualValues(t, 3, inner.calls.Load())
}

func TestResilient_ExhaustedRetriesFail(t *testing.T) {
	inner := &scriptedEvaluator{name: "down", failFor: 100}
	r := NewResilient(inner, circuit.New("down"), fastRetry(3), nil)

	_, err := r.Evaluate(context.Background(), domain.Case{Text: "x"})
	require.Error(t, err)
	assert.EqualValues(t, 3, inner.calls.Load())
}

func TestResilient_OpenBreakerSkipsInnerCall(t *testing.T) {
	inner := &scriptedEvaluator{name: "down", failFor: 100}
	breaker := circuit.New("down", circuit.WithFailureThreshold(2))
	r := NewResilient(inner, breaker, fastRetry(1), nil)
	ctx := context.Background()

	// Two failed calls trip the breaker.
	_, err := r.Evaluate(ctx, domain.Case{Text: "x"})
	require.Error(t, err)
	_, err = r.Evaluate(ctx, domain.Case{Text: "x"})
	require.Error(t, err)

	callsBefore := inner.calls.Load()
	_, err = r.Evaluate(ctx, domain.Case{Text: "x"})
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, callsBefore, inner.calls.Load(), "open breaker must not reach the evaluator")
}

func TestResilient_BreakerRecoversAfterCooldown(t *testing.T) {
	now := time.Unix(1000, 0)
	clock := func() time.Time { return now }

	inner := &scriptedEvaluator{
		name:     "recovering",
		failFor:  2,
		response: domain.CriticOutput{CriticName: "recovering", Verdict: domain.VerdictAllow, Confidence: 0.9},
	}
	breaker := circuit.New("recovering",
		circuit.WithFailureThreshold(2),
		circuit.WithCooldown(30*time.Second),
		circuit.WithClock(clock),
	)
	r := NewResilient(inner, breaker, fastRetry(1), nil)
	ctx := context.Background()

	_, err := r.Evaluate(ctx, domain.Case{Text: "x"})
	require.Error(t, err)
	_, err = r.Evaluate(ctx, domain.Case{Text: "x"})
	require.Error(t, err)
	_, err = r.Evaluate(ctx, domain.Case{Text: "x"})
	require.ErrorIs(t, err, ErrCircuitOpen)

	// After the cooldown the half-open trial goes through and closes the
	// breaker on success.
	now = now.Add(31 * time.Second)
	out, err := r.Evaluate(ctx, domain.Case{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictAllow, out.Verdict)

	out, err = r.Evaluate(ctx, domain.Case{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, domain.VerdictAllow, out.Verdict)
}

func TestResilient_CanceledContextNotRetried(t *testing.T) {
	inner := &scriptedEvaluator{name: "down", failFor: 100}
	r := NewResilient(inner, circuit.New("down"), fastRetry(5), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Evaluate(ctx, domain.Case{Text: "x"})
	require.Error(t, err)
	assert.EqualValues(t, 1, inner.calls.Load())
}
