// Package adjudicate orchestrates the pipeline: cache lookup, precedent
// classification, concurrent critic execution, aggregation, ledger append,
// and cache fill. Each stage is a port so the orchestration itself stays a
// thin, fully mockable sequence.
package adjudicate

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"arbiter/internal/adjudicate/metrics"
	"arbiter/internal/audit"
	"arbiter/internal/critic"
	"arbiter/internal/domain"
	"arbiter/internal/ledger"
	dErrors "arbiter/pkg/domain-errors"
	"arbiter/pkg/requestcontext"
)

var tracer = otel.Tracer("arbiter/internal/adjudicate")

// Service is the adjudication orchestrator.
type Service struct {
	registry   *critic.Registry
	runner     CriticRunner
	aggregator Aggregator
	cache      DecisionCache
	ledger     Ledger
	precedent  Precedent
	emitter    Emitter
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewService wires the orchestrator. Precedent and emitter may be nil; cache,
// runner, aggregator, and ledger are mandatory.
func NewService(
	registry *critic.Registry,
	runner CriticRunner,
	aggregator Aggregator,
	cache DecisionCache,
	ldg Ledger,
	precedent Precedent,
	emitter Emitter,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		registry:   registry,
		runner:     runner,
		aggregator: aggregator,
		cache:      cache,
		ledger:     ldg,
		precedent:  precedent,
		emitter:    emitter,
		logger:     logger,
		metrics:    m,
	}
}

// Result is a decision plus provenance facts about how it was produced.
type Result struct {
	Decision    *domain.Decision
	LedgerEntry ledger.Entry
	FromCache   bool
}

// Adjudicate runs the full pipeline for a case. Identical content under the
// same configuration within the cache TTL short-circuits to the cached
// decision without touching any critic.
func (s *Service) Adjudicate(ctx context.Context, c domain.Case) (*Result, error) {
	if c.Text == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "case text is required")
	}
	c = c.WithID()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "adjudicate",
		trace.WithAttributes(attribute.String("case.id", c.ID)))
	defer span.End()

	if cached := s.cache.Get(ctx, c); cached != nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		s.emit(ctx, audit.Event{Type: audit.TypeCacheHit, CaseID: c.ID, DecisionID: cached.ID, Verdict: string(cached.OverallVerdict)})
		s.observe(*cached, true, time.Since(start))
		return &Result{Decision: cached, FromCache: true}, nil
	}

	precedentStatus := c.PrecedentStatus()
	if precedentStatus == "" && s.precedent != nil {
		precedentStatus = s.precedent.Classify(ctx, c)
	}

	outputs := s.runCritics(ctx, c)

	decision, err := s.aggregator.Aggregate(c.ID, outputs, precedentStatus)
	if err != nil {
		return nil, err
	}

	entry, err := s.ledger.AppendDecision(ctx, *decision)
	if err != nil {
		// The ledger spills internally on store trouble; an error here means
		// the entry could not even be signed, and an unauditable decision
		// must not be served.
		return nil, dErrors.Wrap(dErrors.CodeInternal, "ledger append failed", err)
	}

	s.cache.Put(ctx, c, *decision)
	if s.precedent != nil {
		s.precedent.Record(ctx, c, *decision)
	}

	s.emit(ctx, audit.Event{Type: audit.TypeDecided, CaseID: c.ID, DecisionID: decision.ID, Verdict: string(decision.OverallVerdict), Escalated: decision.Escalate})
	if decision.Escalate {
		s.emit(ctx, audit.Event{Type: audit.TypeEscalated, CaseID: c.ID, DecisionID: decision.ID, Verdict: string(decision.OverallVerdict)})
	}

	s.logger.InfoContext(ctx, "case adjudicated",
		"request_id", requestcontext.RequestID(ctx),
		"case_id", c.ID,
		"decision_id", decision.ID,
		"verdict", decision.OverallVerdict,
		"conflict", decision.ConflictDetected,
		"escalate", decision.Escalate,
		"critics", len(outputs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.observe(*decision, false, time.Since(start))

	return &Result{Decision: decision, LedgerEntry: entry}, nil
}

func (s *Service) runCritics(ctx context.Context, c domain.Case) []domain.CriticOutput {
	ctx, span := tracer.Start(ctx, "adjudicate.critics")
	defer span.End()

	outputs := s.runner.Run(ctx, c, s.registry.All())
	span.SetAttributes(attribute.Int("critics.count", len(outputs)))
	return outputs
}

// EscalateRequest carries a human escalation outcome. RefEntryID and Verdict
// are optional: an empty RefEntryID resolves to the case's latest decision
// entry and an empty Verdict records the escalation as pending review.
type EscalateRequest struct {
	CaseID     string
	RefEntryID string
	Actor      string
	Note       string
	Verdict    domain.Verdict
}

// Escalate records a human review outcome as a new ledger entry referencing
// the original decision entry.
func (s *Service) Escalate(ctx context.Context, req EscalateRequest) (ledger.Entry, error) {
	ctx, span := tracer.Start(ctx, "escalate",
		trace.WithAttributes(attribute.String("case.id", req.CaseID)))
	defer span.End()

	if req.Verdict == "" {
		req.Verdict = domain.VerdictReview
	}
	if req.RefEntryID == "" {
		refID, err := s.latestDecisionEntry(ctx, req.CaseID)
		if err != nil {
			return ledger.Entry{}, err
		}
		req.RefEntryID = refID
	}

	entry, err := s.ledger.AppendEscalation(ctx, req.CaseID, req.RefEntryID, req.Actor, req.Note, req.Verdict)
	if err != nil {
		return ledger.Entry{}, err
	}

	if s.metrics != nil {
		s.metrics.Escalations.Inc()
	}
	s.emit(ctx, audit.Event{Type: audit.TypeEscalated, CaseID: req.CaseID, Verdict: string(req.Verdict)})
	s.logger.InfoContext(ctx, "case escalated",
		"request_id", requestcontext.RequestID(ctx),
		"case_id", req.CaseID,
		"ref_entry_id", req.RefEntryID,
		"verdict", req.Verdict,
	)
	return entry, nil
}

// latestDecisionEntry finds the most recent decision entry for a case so an
// escalation that names only the case still references the decision it
// overturns.
func (s *Service) latestDecisionEntry(ctx context.Context, caseID string) (string, error) {
	entries, err := s.ledger.ListByCase(ctx, caseID)
	if err != nil {
		return "", err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Kind == ledger.KindDecision {
			return entries[i].ID, nil
		}
	}
	return "", dErrors.Newf(dErrors.CodeNotFound, "no decision recorded for case %s", caseID)
}

func (s *Service) emit(ctx context.Context, e audit.Event) {
	if s.emitter != nil {
		s.emitter.Emit(ctx, e)
	}
}

func (s *Service) observe(d domain.Decision, cached bool, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.Decisions.WithLabelValues(string(d.OverallVerdict)).Inc()
	if d.ConflictDetected {
		s.metrics.Conflicts.Inc()
	}
	if !cached {
		s.metrics.Duration.Observe(elapsed.Seconds())
	}
}
