// Package ledger is the tamper-evident audit trail. Every decision becomes a
// signed, append-only entry; signatures are HMACs over a canonical encoding
// under versioned keys, so any post-hoc modification of a stored entry is
// detectable by re-verification.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"arbiter/internal/domain"
	"arbiter/internal/ledger/metrics"
	"arbiter/pkg/requestcontext"
)

// TxRunner executes a function within one storage transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service signs and records ledger entries and verifies recorded ones.
type Service struct {
	store    Store
	keyring  *Keyring
	txRunner TxRunner
	logger   *slog.Logger
	metrics  *metrics.Metrics

	// spill buffers entries whose append failed, so a store outage loses no
	// audit records as long as the process survives to flush.
	mu    sync.Mutex
	spill []Entry
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithTxRunner makes spill flushes atomic: the whole batch lands in one
// storage transaction or stays queued.
func WithTxRunner(r TxRunner) Option {
	return func(s *Service) { s.txRunner = r }
}

// NewService creates the ledger service.
func NewService(store Store, keyring *Keyring, logger *slog.Logger, m *metrics.Metrics, opts ...Option) *Service {
	s := &Service{store: store, keyring: keyring, logger: logger, metrics: m}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AppendDecision records a completed adjudication. A store failure spills the
// signed entry for later flushing rather than failing the adjudication; the
// decision stands either way.
func (s *Service) AppendDecision(ctx context.Context, d domain.Decision) (Entry, error) {
	entry := Entry{
		ID:        uuid.NewString(),
		Kind:      KindDecision,
		CaseID:    d.CaseID,
		Verdict:   d.OverallVerdict,
		Decision:  d,
		Timestamp: requestcontext.Now(ctx).UTC(),
	}
	return s.append(ctx, entry)
}

// AppendEscalation records a human escalation outcome. The original entry is
// never modified; the escalation references it and carries the human verdict.
func (s *Service) AppendEscalation(ctx context.Context, caseID, refEntryID, actor, note string, verdict domain.Verdict) (Entry, error) {
	if _, err := s.store.Get(ctx, refEntryID); err != nil {
		return Entry{}, fmt.Errorf("referenced entry %s: %w", refEntryID, err)
	}

	entry := Entry{
		ID:         uuid.NewString(),
		Kind:       KindEscalation,
		CaseID:     caseID,
		Verdict:    verdict,
		Actor:      actor,
		Note:       note,
		RefEntryID: refEntryID,
		Timestamp:  requestcontext.Now(ctx).UTC(),
	}
	return s.append(ctx, entry)
}

func (s *Service) append(ctx context.Context, entry Entry) (Entry, error) {
	entry.KeyVersion = s.keyring.CurrentVersion()

	payload, err := canonicalPayload(entry)
	if err != nil {
		return Entry{}, err
	}
	entry.Signature, err = s.keyring.Sign(payload, entry.KeyVersion)
	if err != nil {
		return Entry{}, err
	}

	if err := s.store.Append(ctx, entry); err != nil {
		s.spillEntry(ctx, entry, err)
		return entry, nil
	}

	if s.metrics != nil {
		s.metrics.Appended.WithLabelValues(string(entry.Kind)).Inc()
	}
	return entry, nil
}

func (s *Service) spillEntry(ctx context.Context, entry Entry, cause error) {
	s.mu.Lock()
	s.spill = append(s.spill, entry)
	depth := len(s.spill)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.AppendFailures.Inc()
		s.metrics.SpillDepth.Set(float64(depth))
	}
	if s.logger != nil {
		s.logger.ErrorContext(ctx, "ledger append failed, entry spilled",
			"entry_id", entry.ID,
			"case_id", entry.CaseID,
			"spill_depth", depth,
			"error", cause,
		)
	}
}

// FlushSpill re-appends spilled entries. Called periodically and on shutdown.
// Entries that fail again stay queued. With a TxRunner the batch is atomic,
// so a mid-flush failure cannot leave half the queue persisted.
func (s *Service) FlushSpill(ctx context.Context) error {
	s.mu.Lock()
	pending := s.spill
	s.spill = nil
	s.mu.Unlock()
	if len(pending) == 0 {
		return nil
	}

	remaining, lastErr := s.flush(ctx, pending)

	s.mu.Lock()
	s.spill = append(remaining, s.spill...)
	depth := len(s.spill)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SpillDepth.Set(float64(depth))
	}
	if lastErr != nil {
		return fmt.Errorf("flush spill: %d entries still pending: %w", depth, lastErr)
	}
	return nil
}

func (s *Service) flush(ctx context.Context, pending []Entry) ([]Entry, error) {
	if s.txRunner == nil {
		var remaining []Entry
		var lastErr error
		for _, entry := range pending {
			if err := s.store.Append(ctx, entry); err != nil {
				remaining = append(remaining, entry)
				lastErr = err
				continue
			}
			if s.metrics != nil {
				s.metrics.Appended.WithLabelValues(string(entry.Kind)).Inc()
			}
		}
		return remaining, lastErr
	}

	err := s.txRunner.InTx(ctx, func(ctx context.Context) error {
		for _, entry := range pending {
			if err := s.store.Append(ctx, entry); err != nil {
				return fmt.Errorf("re-append entry %s: %w", entry.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return pending, err
	}
	if s.metrics != nil {
		for _, entry := range pending {
			s.metrics.Appended.WithLabelValues(string(entry.Kind)).Inc()
		}
	}
	return nil, nil
}

// Get returns a single entry by ID.
func (s *Service) Get(ctx context.Context, entryID string) (Entry, error) {
	return s.store.Get(ctx, entryID)
}

// ListByCase returns all entries for a case in append order.
func (s *Service) ListByCase(ctx context.Context, caseID string) ([]Entry, error) {
	return s.store.ListByCase(ctx, caseID)
}

// Verify recomputes the signature of a stored entry and reports whether it
// matches. False means the entry was modified after signing or signed with a
// key this ledger does not know.
func (s *Service) Verify(ctx context.Context, entryID string) (bool, error) {
	entry, err := s.store.Get(ctx, entryID)
	if err != nil {
		return false, err
	}
	return s.verifyEntry(entry)
}

func (s *Service) verifyEntry(entry Entry) (bool, error) {
	payload, err := canonicalPayload(entry)
	if err != nil {
		return false, err
	}
	ok, err := s.keyring.Verify(payload, entry.KeyVersion, entry.Signature)
	if err != nil {
		return false, err
	}
	if !ok && s.metrics != nil {
		s.metrics.VerifyFailures.Inc()
	}
	return ok, nil
}

// Report summarizes a full-ledger verification sweep.
type Report struct {
	Total       int      `json:"total"`
	Valid       int      `json:"valid"`
	Tampered    int      `json:"tampered"`
	TamperedIDs []string `json:"tampered_ids,omitempty"`
}

// VerifyAll re-verifies every entry in the ledger.
func (s *Service) VerifyAll(ctx context.Context) (Report, error) {
	entries, err := s.store.All(ctx)
	if err != nil {
		return Report{}, err
	}

	report := Report{Total: len(entries)}
	for _, entry := range entries {
		ok, err := s.verifyEntry(entry)
		if err != nil {
			return Report{}, fmt.Errorf("verify entry %s: %w", entry.ID, err)
		}
		if ok {
			report.Valid++
		} else {
			report.Tampered++
			report.TamperedIDs = append(report.TamperedIDs, entry.ID)
		}
	}
	return report, nil
}

// Rotate advances the signing key. Subsequent entries are signed under the new
// version; existing entries keep verifying under theirs.
func (s *Service) Rotate(ctx context.Context) (int, error) {
	v, err := s.keyring.Rotate()
	if err != nil {
		return 0, err
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "ledger signing key rotated", "key_version", v)
	}
	return v, nil
}
