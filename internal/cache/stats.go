package cache

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time snapshot of cache activity
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Sets    uint64 `json:"sets"`
	Deletes uint64 `json:"deletes"`
}

// HitRate returns hits / (hits + misses), or 0 when the cache is cold
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// StatsCache wraps another Cache and counts hits, misses, sets, and
// deletes. Safe for concurrent use.
type StatsCache struct {
	inner   Cache
	hits    atomic.Uint64
	misses  atomic.Uint64
	sets    atomic.Uint64
	deletes atomic.Uint64
}

// NewStatsCache wraps the given cache with activity counters
func NewStatsCache(inner Cache) *StatsCache {
	return &StatsCache{inner: inner}
}

// Get retrieves a value and records a hit or miss
func (c *StatsCache) Get(key string) ([]byte, bool) {
	val, found := c.inner.Get(key)
	if found {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return val, found
}

// Set stores a value and records the write
func (c *StatsCache) Set(key string, value []byte, ttl time.Duration) error {
	c.sets.Add(1)
	return c.inner.Set(key, value, ttl)
}

// Delete removes a value and records the delete
func (c *StatsCache) Delete(key string) error {
	c.deletes.Add(1)
	return c.inner.Delete(key)
}

// Clear clears the underlying cache. Counters are left intact so a run's
// totals survive a mid-run flush.
func (c *StatsCache) Clear() error {
	return c.inner.Clear()
}

// Stats returns a snapshot of the counters
func (c *StatsCache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Sets:    c.sets.Load(),
		Deletes: c.deletes.Load(),
	}
}
