package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Store is the narrow contract against the external key/value backend.
// Get reports the entry's remaining TTL so the front tier never outlives
// the backend's expiry.
type Store interface {
	Get(ctx context.Context, key string) (value string, remaining time.Duration, ok bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) (int, error)
}

type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// CacheLayer is a two-tier cache: a small in-process expirable LRU in front
// of the shared backend. The cache is a pure optimization, never a source
// of truth: every backend failure is reported as a miss so callers always
// fall through to the store/compute path.
type CacheLayer struct {
	backend  Store
	local    *expirable.LRU[string, string]
	localTTL time.Duration
	logger   *logrus.Logger
	Tracer   trace.Tracer

	hits   uint64
	misses uint64
}

// New builds the layer. A localSize of zero disables the front tier, which
// leaves the backend's TTLs as the only expiry authority.
func New(backend Store, localSize int, localTTL time.Duration, logger *logrus.Logger, tracer trace.Tracer) *CacheLayer {
	if localTTL <= 0 {
		localTTL = 30 * time.Second
	}
	c := &CacheLayer{
		backend:  backend,
		localTTL: localTTL,
		logger:   logger,
		Tracer:   tracer,
	}
	if localSize > 0 {
		c.local = expirable.NewLRU[string, string](localSize, nil, localTTL)
	}
	return c
}

func (c *CacheLayer) Get(ctx context.Context, key string) (string, bool) {
	if c.local != nil {
		if value, ok := c.local.Get(key); ok {
			atomic.AddUint64(&c.hits, 1)
			return value, true
		}
	}

	value, remaining, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		// Backing store unreachable is a miss, not an error.
		c.logger.WithFields(logrus.Fields{"path": "cache/get", "key": key}).Warn("cache backend read failed, treating as miss: ", err)
		atomic.AddUint64(&c.misses, 1)
		return "", false
	}
	if !ok {
		atomic.AddUint64(&c.misses, 1)
		return "", false
	}

	atomic.AddUint64(&c.hits, 1)
	if c.local != nil && remaining >= c.localTTL {
		// An entry closer to its backend expiry than the front tier's TTL
		// would be served past its own expiry from the front tier.
		c.local.Add(key, value)
	}
	return value, true
}

func (c *CacheLayer) Set(ctx context.Context, key string, value string, ttl time.Duration) {
	ctx, span := c.Tracer.Start(ctx, "CacheLayer.Set")
	defer span.End()

	if err := c.backend.Set(ctx, key, value, ttl); err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithFields(logrus.Fields{"path": "cache/set", "key": key}).Warn("cache backend write failed: ", err)
		return
	}
	if c.local == nil || ttl < c.localTTL {
		// Entries outliving the shared backend would serve stale data from
		// the front tier after a backend expiry.
		return
	}
	c.local.Add(key, value)
}

// InvalidatePattern clears every entry whose key matches the glob pattern
// in both tiers. It is non-transactional; entries may exist briefly after
// the call returns. Invoking it twice for the same pattern is a no-op the
// second time.
func (c *CacheLayer) InvalidatePattern(ctx context.Context, pattern string) int {
	ctx, span := c.Tracer.Start(ctx, "CacheLayer.InvalidatePattern")
	defer span.End()

	removed := 0
	if c.local != nil {
		for _, key := range c.local.Keys() {
			if MatchKey(pattern, key) {
				c.local.Remove(key)
				removed++
			}
		}
	}

	count, err := c.backend.DeletePattern(ctx, pattern)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.logger.WithFields(logrus.Fields{"path": "cache/invalidate", "pattern": pattern}).Warn("cache backend invalidation failed: ", err)
		return removed
	}
	if count > removed {
		return count
	}
	return removed
}

func (c *CacheLayer) Stats() Stats {
	hits := atomic.LoadUint64(&c.hits)
	misses := atomic.LoadUint64(&c.misses)
	stats := Stats{Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}
