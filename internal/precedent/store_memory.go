package precedent

import (
	"context"
	"sync"

	"arbiter/internal/domain"
)

// MemoryStore keeps verdict history in process.
type MemoryStore struct {
	mu       sync.RWMutex
	verdicts map[string][]domain.Verdict
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{verdicts: make(map[string][]domain.Verdict)}
}

func (s *MemoryStore) Record(_ context.Context, contentHash string, _ string, verdict domain.Verdict) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verdicts[contentHash] = append(s.verdicts[contentHash], verdict)
	return nil
}

func (s *MemoryStore) Verdicts(_ context.Context, contentHash string) ([]domain.Verdict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Verdict, len(s.verdicts[contentHash]))
	copy(out, s.verdicts[contentHash])
	return out, nil
}
