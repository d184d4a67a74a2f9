// Package searchcache wraps a Redis client as a best-effort cache in
// front of the query service. It is entirely optional: with no Redis
// address configured, every lookup is a clean miss and search behaves
// identically to an uncached facade.
package searchcache

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/index"
	pkgredis "github.com/Adithya-Monish-Kumar-K/minisearch/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/minisearch/pkg/resilience"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "minisearch:search:"

// Cache wraps a Redis client with a circuit breaker so a down Redis
// degrades search to uncached rather than failing requests, and a
// singleflight group so concurrent identical queries compute once.
type Cache struct {
	client *pkgredis.Client
	ttl    time.Duration
	cb     *resilience.CircuitBreaker
	group  singleflight.Group
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// New wraps client with a TTL for cached entries. client may be nil, in
// which case the cache is permanently disabled.
func New(client *pkgredis.Client, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		cb:     resilience.NewCircuitBreaker("search-cache", resilience.CircuitBreakerConfig{}),
		logger: slog.Default().With("component", "search-cache"),
	}
}

// Enabled reports whether a Redis client is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *Cache) key(terms []string, topK int) string {
	joined := strings.Join(terms, ",")
	raw := joined + "|" + strconv.Itoa(topK)
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, sum)
}

// GetOrCompute returns a cached result for terms/topK if present;
// otherwise it calls compute, caches the result, and returns it. Any
// Redis error (including a tripped circuit breaker) is treated as a
// cache miss — compute still runs and its result is returned to the
// caller, just not persisted.
func (c *Cache) GetOrCompute(ctx context.Context, terms []string, topK int, compute func() []index.Result) []index.Result {
	if !c.Enabled() {
		return compute()
	}

	key := c.key(terms, topK)
	if results, ok := c.get(ctx, key); ok {
		c.hits.Add(1)
		return results
	}
	c.misses.Add(1)

	val, _, _ := c.group.Do(key, func() (interface{}, error) {
		if results, ok := c.get(ctx, key); ok {
			return results, nil
		}
		results := compute()
		c.set(ctx, key, results)
		return results, nil
	})
	return val.([]index.Result)
}

func (c *Cache) get(ctx context.Context, key string) ([]index.Result, bool) {
	var out []index.Result
	err := c.cb.Execute(func() error {
		data, err := c.client.Get(ctx, key)
		if err != nil {
			if pkgredis.IsNilError(err) {
				return nil
			}
			return err
		}
		return json.Unmarshal([]byte(data), &out)
	})
	if err != nil || out == nil {
		return nil, false
	}
	return out, true
}

func (c *Cache) set(ctx context.Context, key string, results []index.Result) {
	data, err := json.Marshal(results)
	if err != nil {
		c.logger.Error("cache marshal failed", "error", err)
		return
	}
	if err := c.cb.Execute(func() error {
		return c.client.Set(ctx, key, data, c.ttl)
	}); err != nil {
		c.logger.Warn("cache set failed", "error", err)
	}
}

// Stats reports cumulative hit/miss counts.
func (c *Cache) Stats() (hits, misses int64) {
	if c == nil {
		return 0, 0
	}
	return c.hits.Load(), c.misses.Load()
}
