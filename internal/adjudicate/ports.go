package adjudicate

import (
	"context"

	"arbiter/internal/audit"
	"arbiter/internal/critic"
	"arbiter/internal/domain"
	"arbiter/internal/ledger"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// DecisionCache serves and stores finished decisions keyed by case content.
type DecisionCache interface {
	Get(ctx context.Context, c domain.Case) *domain.Decision
	Put(ctx context.Context, c domain.Case, d domain.Decision)
}

// CriticRunner fans a case out to evaluators and always returns one output
// per evaluator.
type CriticRunner interface {
	Run(ctx context.Context, c domain.Case, evaluators []critic.Evaluator) []domain.CriticOutput
}

// Aggregator combines critic outputs into a decision.
type Aggregator interface {
	Aggregate(caseID string, outputs []domain.CriticOutput, precedentStatus string) (*domain.Decision, error)
}

// Ledger records decisions and escalations in the tamper-evident audit trail.
type Ledger interface {
	AppendDecision(ctx context.Context, d domain.Decision) (ledger.Entry, error)
	AppendEscalation(ctx context.Context, caseID, refEntryID, actor, note string, verdict domain.Verdict) (ledger.Entry, error)
	ListByCase(ctx context.Context, caseID string) ([]ledger.Entry, error)
}

// Precedent classifies cases against decision history.
type Precedent interface {
	Classify(ctx context.Context, c domain.Case) string
	Record(ctx context.Context, c domain.Case, d domain.Decision)
}

// Emitter publishes operational audit events.
type Emitter interface {
	Emit(ctx context.Context, e audit.Event)
}
