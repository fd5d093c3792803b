package intel

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Lizz6780/phishscope-sentinel/internal/domain"
	"github.com/Lizz6780/phishscope-sentinel/internal/ports"
)

// keyPrefix namespaces reputation cache keys in Redis.
const keyPrefix = "phishscope:url:"

// DefaultCacheTTL is how long a URL verdict is reused across runs. Within
// a single run every URL is looked up at most once anyway; the cache only
// spares quota between runs.
const DefaultCacheTTL = time.Hour

// CachedURLChecker wraps a URLChecker with a Redis-backed TTL cache.
// Redis being down or slow is never fatal: cache misses and cache errors
// both fall through to the live lookup.
type CachedURLChecker struct {
	next   ports.URLChecker
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedURLChecker creates a caching layer over the given checker.
func NewCachedURLChecker(next ports.URLChecker, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedURLChecker {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedURLChecker{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

// CheckURL serves the reputation from cache when present, otherwise
// delegates and stores the result. Failed lookups are not cached: a
// neutral signal born from an outage should not outlive the outage.
func (c *CachedURLChecker) CheckURL(ctx context.Context, url string) (domain.URLReputation, error) {
	key := keyPrefix + url

	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached domain.URLReputation
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("reputation cache read failed", zap.Error(err))
	}

	rep, err := c.next.CheckURL(ctx, url)
	if err != nil {
		return rep, err
	}

	if raw, merr := json.Marshal(rep); merr == nil {
		if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.Warn("reputation cache write failed", zap.Error(err))
		}
	}

	return rep, nil
}
