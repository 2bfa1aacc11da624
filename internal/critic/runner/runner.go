// Package runner executes all critics for a case concurrently under failure
// isolation. It always returns one output per evaluator: failures, timeouts,
// and panics become degraded outputs instead of aborting the fan-out.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"arbiter/internal/critic"
	"arbiter/internal/critic/metrics"
	"arbiter/internal/domain"
)

const errTimeout = "timeout"

// Runner fans a case out to every evaluator with bounded parallelism and one
// global deadline.
type Runner struct {
	maxParallelism int
	timeout        time.Duration
	weightFor      func(string) float64
	priorityFor    func(string) domain.Priority
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

// Config configures a Runner. WeightFor and PriorityFor come from the active
// pipeline configuration; nil funcs default to weight 1.0 / priority normal.
type Config struct {
	MaxParallelism int
	Timeout        time.Duration
	WeightFor      func(criticName string) float64
	PriorityFor    func(criticName string) domain.Priority
}

// New creates a Runner. Metrics may be nil in tests.
func New(cfg Config, logger *slog.Logger, m *metrics.Metrics) *Runner {
	if cfg.MaxParallelism < 1 {
		cfg.MaxParallelism = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.WeightFor == nil {
		cfg.WeightFor = func(string) float64 { return 1.0 }
	}
	if cfg.PriorityFor == nil {
		cfg.PriorityFor = func(string) domain.Priority { return domain.PriorityNormal }
	}
	return &Runner{
		maxParallelism: cfg.MaxParallelism,
		timeout:        cfg.Timeout,
		weightFor:      cfg.WeightFor,
		priorityFor:    cfg.PriorityFor,
		logger:         logger,
		metrics:        m,
	}
}

// Run evaluates the case against every evaluator. It returns exactly
// len(evaluators) outputs regardless of failures; outputs are in evaluator
// order but callers must not rely on that.
func (r *Runner) Run(ctx context.Context, c domain.Case, evaluators []critic.Evaluator) []domain.CriticOutput {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	outputs := make([]domain.CriticOutput, len(evaluators))

	g := new(errgroup.Group)
	g.SetLimit(r.maxParallelism)
	for i, ev := range evaluators {
		g.Go(func() error {
			outputs[i] = r.runOne(ctx, c, ev)
			return nil
		})
	}
	_ = g.Wait()

	for i := range outputs {
		r.observe(outputs[i])
	}
	return outputs
}

// runOne executes a single evaluator, converting every failure mode into a
// degraded output. The evaluator goroutine may outlive the deadline; its
// result is discarded rather than waited for.
func (r *Runner) runOne(ctx context.Context, c domain.Case, ev critic.Evaluator) domain.CriticOutput {
	start := time.Now()
	name := ev.Name()

	type result struct {
		out domain.CriticOutput
		err error
	}
	resultCh := make(chan result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				if r.metrics != nil {
					r.metrics.PanicsRecovered.Inc()
				}
				if r.logger != nil {
					r.logger.ErrorContext(ctx, "critic panicked",
						"critic", name,
						"panic", fmt.Sprintf("%v", rec),
					)
				}
				resultCh <- result{err: fmt.Errorf("panic: %v", rec)}
			}
		}()
		out, err := ev.Evaluate(ctx, c)
		resultCh <- result{out: out, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			return r.degraded(name, res.err, time.Since(start))
		}
		out := res.out
		out.CriticName = name
		out.Weight = r.weightFor(name)
		out.Priority = r.priorityFor(name)
		if out.Elapsed == 0 {
			out.Elapsed = time.Since(start)
		}
		return out
	case <-ctx.Done():
		if r.metrics != nil {
			r.metrics.TimeoutsTotal.Inc()
		}
		if r.logger != nil {
			r.logger.WarnContext(ctx, "critic abandoned at deadline", "critic", name)
		}
		return r.degraded(name, errors.New(errTimeout), time.Since(start))
	}
}

// degraded converts a critic failure into a first-class output so the decision
// record shows the failure instead of silently dropping the critic.
func (r *Runner) degraded(name string, err error, elapsed time.Duration) domain.CriticOutput {
	errText := err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		errText = errTimeout
	}
	weight := r.weightFor(name)
	if errText == errTimeout {
		// Timed-out critics carry zero weight so they cannot tilt scoring.
		weight = 0
	}
	return domain.CriticOutput{
		CriticName:    name,
		Verdict:       domain.VerdictReview,
		Confidence:    0,
		Justification: "critic unavailable",
		Weight:        weight,
		Priority:      r.priorityFor(name),
		Elapsed:       elapsed,
		Err:           errText,
	}
}

func (r *Runner) observe(out domain.CriticOutput) {
	if r.metrics == nil {
		return
	}
	if out.Failed() {
		r.metrics.Failures.WithLabelValues(out.CriticName).Inc()
		return
	}
	r.metrics.ObserveEvaluation(out.CriticName, string(out.Verdict), out.Elapsed)
}
