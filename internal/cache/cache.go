// Package cache stores finished decisions keyed by case content hash so that
// re-adjudicating identical content is a lookup, not a critic fan-out. Entries
// are bound to the pipeline configuration fingerprint active at write time and
// to a TTL; either going stale turns a hit into a miss.
package cache

import (
	"context"
	"log/slog"
	"time"

	"arbiter/internal/cache/metrics"
	"arbiter/internal/domain"
	"arbiter/pkg/platform/sentinel"
	"arbiter/pkg/requestcontext"
)

// Entry is a cached decision plus the facts needed to judge its freshness.
type Entry struct {
	Decision    domain.Decision `json:"decision"`
	Fingerprint string          `json:"fingerprint"`
	StoredAt    time.Time       `json:"stored_at"`
}

// Store is the persistence port for cache entries. Implementations return
// sentinel.ErrNotFound for absent keys.
type Store interface {
	Get(ctx context.Context, key string) (Entry, error)
	Put(ctx context.Context, key string, e Entry, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Cache is the decision cache service. It owns freshness policy; stores only
// hold bytes.
type Cache struct {
	store       Store
	ttl         time.Duration
	fingerprint string
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// New creates the cache service. fingerprint is the active pipeline
// configuration fingerprint; it is fixed for the process lifetime.
func New(store Store, ttl time.Duration, fingerprint string, logger *slog.Logger, m *metrics.Metrics) *Cache {
	return &Cache{store: store, ttl: ttl, fingerprint: fingerprint, logger: logger, metrics: m}
}

// Get returns the cached decision for the case, or nil on any kind of miss.
// Stale and expired entries are evicted on the way out. Store failures degrade
// to a miss; the cache must never make adjudication less available.
func (c *Cache) Get(ctx context.Context, cs domain.Case) *domain.Decision {
	key := cs.Hash()

	entry, err := c.store.Get(ctx, key)
	if err != nil {
		if err != sentinel.ErrNotFound && c.logger != nil {
			c.logger.WarnContext(ctx, "cache read failed", "error", err)
		}
		c.miss("absent")
		return nil
	}

	if entry.Fingerprint != c.fingerprint {
		_ = c.store.Delete(ctx, key)
		c.miss("stale")
		return nil
	}
	if requestcontext.Now(ctx).Sub(entry.StoredAt) > c.ttl {
		_ = c.store.Delete(ctx, key)
		c.miss("expired")
		return nil
	}

	if c.metrics != nil {
		c.metrics.Hits.Inc()
	}
	return &entry.Decision
}

// Put stores a decision for the case. Failures are logged and swallowed: a
// decision that cannot be cached is still a valid decision.
func (c *Cache) Put(ctx context.Context, cs domain.Case, d domain.Decision) {
	entry := Entry{
		Decision:    d,
		Fingerprint: c.fingerprint,
		StoredAt:    requestcontext.Now(ctx),
	}
	if err := c.store.Put(ctx, cs.Hash(), entry, c.ttl); err != nil && c.logger != nil {
		c.logger.WarnContext(ctx, "cache write failed", "error", err)
	}
}

// Invalidate drops the entry for the case, if any.
func (c *Cache) Invalidate(ctx context.Context, cs domain.Case) {
	if err := c.store.Delete(ctx, cs.Hash()); err != nil && err != sentinel.ErrNotFound && c.logger != nil {
		c.logger.WarnContext(ctx, "cache invalidate failed", "error", err)
	}
}

func (c *Cache) miss(reason string) {
	if c.metrics != nil {
		c.metrics.Misses.WithLabelValues(reason).Inc()
	}
}
