package critic

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"arbiter/internal/domain"
	"arbiter/pkg/platform/circuit"
)

// ErrCircuitOpen is returned when a critic's breaker short-circuits the call
// before any I/O is attempted.
var ErrCircuitOpen = errors.New("circuit open")

// RetryConfig bounds the retry loop applied to each critic call.
type RetryConfig struct {
	MaxAttempts int           // total attempts including the first
	BaseDelay   time.Duration // doubled per attempt
	MaxDelay    time.Duration // backoff cap
	MaxJitter   time.Duration // random addition per backoff
}

// DefaultRetryConfig is used when the deployment does not tune retries.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    2 * time.Second,
		MaxJitter:   50 * time.Millisecond,
	}
}

// Resilient wraps an evaluator with retry-with-backoff and a circuit breaker.
// One chronically failing critic trips its own breaker and stops burning the
// pipeline's latency budget; the other critics never notice.
type Resilient struct {
	inner   Evaluator
	breaker *circuit.Breaker
	cfg     RetryConfig
	logger  *slog.Logger
}

// NewResilient wraps inner. The breaker must be dedicated to this evaluator;
// sharing one across critics would let an unrelated outage open it.
func NewResilient(inner Evaluator, breaker *circuit.Breaker, cfg RetryConfig, logger *slog.Logger) *Resilient {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Resilient{inner: inner, breaker: breaker, cfg: cfg, logger: logger}
}

func (r *Resilient) Name() string { return r.inner.Name() }

// Evaluate runs the inner evaluator under the breaker and retry policy. When
// the breaker is open the call returns ErrCircuitOpen immediately, without
// attempting I/O.
func (r *Resilient) Evaluate(ctx context.Context, c domain.Case) (domain.CriticOutput, error) {
	if !r.breaker.Allow() {
		return domain.CriticOutput{}, fmt.Errorf("critic %s: %w", r.inner.Name(), ErrCircuitOpen)
	}

	out, err := r.evaluateWithRetry(ctx, c)
	if err != nil {
		if _, change := r.breaker.RecordFailure(); change.Opened {
			if r.logger != nil {
				r.logger.WarnContext(ctx, "critic circuit opened",
					"critic", r.inner.Name(),
					"error", err,
				)
			}
		}
		return domain.CriticOutput{}, err
	}

	if _, change := r.breaker.RecordSuccess(); change.Closed && r.logger != nil {
		r.logger.InfoContext(ctx, "critic circuit closed", "critic", r.inner.Name())
	}
	return out, nil
}

func (r *Resilient) evaluateWithRetry(ctx context.Context, c domain.Case) (domain.CriticOutput, error) {
	var lastErr error

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		out, err := r.inner.Evaluate(ctx, c)
		if err == nil {
			return out, nil
		}
		lastErr = err

		// Context cancellation is not retryable: the fan-out deadline has
		// passed or the caller gave up.
		if ctx.Err() != nil {
			return domain.CriticOutput{}, ctx.Err()
		}
		if attempt == r.cfg.MaxAttempts-1 {
			break
		}

		backoff := min(r.cfg.BaseDelay<<attempt, r.cfg.MaxDelay)
		backoff += randomJitter(r.cfg.MaxJitter)

		if r.logger != nil {
			r.logger.DebugContext(ctx, "retrying critic",
				"critic", r.inner.Name(),
				"attempt", attempt+1,
				"backoff", backoff,
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return domain.CriticOutput{}, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return domain.CriticOutput{}, fmt.Errorf("critic %s failed after %d attempts: %w",
		r.inner.Name(), r.cfg.MaxAttempts, lastErr)
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64())
}
