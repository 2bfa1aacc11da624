package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"arbiter/internal/cache/metrics"
	"arbiter/pkg/platform/sentinel"
)

// MemoryStore is a bounded in-process cache store with LRU eviction. It is the
// default backend when no Redis URL is configured.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front is most recently used
	metrics  *metrics.Metrics
}

type memoryItem struct {
	key   string
	entry Entry
}

// NewMemoryStore creates a store holding at most capacity entries.
func NewMemoryStore(capacity int, m *metrics.Metrics) *MemoryStore {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryStore{
		capacity: capacity,
		entries:  make(map[string]*list.Element, capacity),
		order:    list.New(),
		metrics:  m,
	}
}

// Get returns the entry for key and marks it most recently used. TTL is
// enforced by the service layer, not here.
func (s *MemoryStore) Get(_ context.Context, key string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[key]
	if !ok {
		return Entry{}, sentinel.ErrNotFound
	}
	s.order.MoveToFront(el)
	return el.Value.(*memoryItem).entry, nil
}

// Put inserts or replaces the entry for key, evicting the least recently used
// entry when at capacity.
func (s *MemoryStore) Put(_ context.Context, key string, e Entry, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[key]; ok {
		el.Value.(*memoryItem).entry = e
		s.order.MoveToFront(el)
		return nil
	}

	if s.order.Len() >= s.capacity {
		oldest := s.order.Back()
		if oldest != nil {
			s.order.Remove(oldest)
			delete(s.entries, oldest.Value.(*memoryItem).key)
			if s.metrics != nil {
				s.metrics.Evictions.Inc()
			}
		}
	}
	s.entries[key] = s.order.PushFront(&memoryItem{key: key, entry: e})
	return nil
}

// Delete removes the entry for key, if present.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.entries[key]
	if !ok {
		return sentinel.ErrNotFound
	}
	s.order.Remove(el)
	delete(s.entries, key)
	return nil
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
