package searchcache

import (
	"context"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/minisearch/internal/core/index"
)

func TestDisabledCacheAlwaysComputes(t *testing.T) {
	c := New(nil, 0)
	if c.Enabled() {
		t.Fatal("cache with nil client should report disabled")
	}

	calls := 0
	compute := func() []index.Result {
		calls++
		return []index.Result{{DocID: 1, Score: 1}}
	}

	c.GetOrCompute(context.Background(), []string{"go"}, 10, compute)
	c.GetOrCompute(context.Background(), []string{"go"}, 10, compute)

	if calls != 2 {
		t.Fatalf("compute called %d times, want 2 (disabled cache never short-circuits)", calls)
	}
}

func TestKeyIsDeterministicForSameQuery(t *testing.T) {
	c := New(nil, 0)
	k1 := c.key([]string{"go", "lang"}, 10)
	k2 := c.key([]string{"go", "lang"}, 10)
	if k1 != k2 {
		t.Fatalf("key() not deterministic: %q vs %q", k1, k2)
	}
	k3 := c.key([]string{"go", "lang"}, 20)
	if k1 == k3 {
		t.Fatal("different topK should produce a different key")
	}
}

func TestStatsOnNilCacheReturnsZero(t *testing.T) {
	var c *Cache
	hits, misses := c.Stats()
	if hits != 0 || misses != 0 {
		t.Fatalf("Stats() on nil cache = (%d,%d), want (0,0)", hits, misses)
	}
}
