package ledger

import (
	"context"
	"sync"

	"arbiter/pkg/platform/sentinel"
)

// MemoryStore is the in-process ledger store used in tests and single-node
// deployments without Postgres.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry
	byID    map[string]int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

func (s *MemoryStore) Append(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[e.ID]; exists {
		return sentinel.ErrConflict
	}
	s.byID[e.ID] = len(s.entries)
	s.entries = append(s.entries, e)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, entryID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[entryID]
	if !ok {
		return Entry{}, sentinel.ErrNotFound
	}
	return s.entries[i], nil
}

func (s *MemoryStore) ListByCase(_ context.Context, caseID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Entry
	for _, e := range s.entries {
		if e.CaseID == caseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *MemoryStore) All(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// tamper overwrites a stored entry in place. Only the tamper-detection tests
// use it; the Store interface deliberately has no such operation.
func (s *MemoryStore) tamper(entryID string, mutate func(*Entry)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[entryID]
	if !ok {
		return false
	}
	mutate(&s.entries[i])
	return true
}
