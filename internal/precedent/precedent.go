// Package precedent tracks how identical case content was decided before and
// classifies new cases against that history. The classification is a hint for
// the aggregator, never a verdict source.
package precedent

import (
	"context"
	"log/slog"

	"arbiter/internal/domain"
)

// Store persists verdict history keyed by case content hash.
type Store interface {
	Record(ctx context.Context, contentHash string, decisionID string, verdict domain.Verdict) error
	Verdicts(ctx context.Context, contentHash string) ([]domain.Verdict, error)
}

// Service classifies cases against decision history.
type Service struct {
	store  Store
	logger *slog.Logger
}

// New creates the precedent service.
func New(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Classify returns the precedent status for a case: novel when no history
// exists, consistent when all prior verdicts agree, conflicting when the
// history itself disagrees. Store failures degrade to "" so precedent never
// blocks adjudication.
func (s *Service) Classify(ctx context.Context, c domain.Case) string {
	verdicts, err := s.store.Verdicts(ctx, c.Hash())
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "precedent lookup failed", "case_id", c.ID, "error", err)
		}
		return ""
	}

	if len(verdicts) == 0 {
		return domain.PrecedentNovel
	}
	first := verdicts[0]
	for _, v := range verdicts[1:] {
		if v != first {
			return domain.PrecedentConflicting
		}
	}
	return domain.PrecedentConsistent
}

// Record adds a finished decision to the history. Failures are logged and
// swallowed; history is advisory.
func (s *Service) Record(ctx context.Context, c domain.Case, d domain.Decision) {
	if err := s.store.Record(ctx, c.Hash(), d.ID, d.OverallVerdict); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "precedent record failed", "case_id", c.ID, "error", err)
	}
}
