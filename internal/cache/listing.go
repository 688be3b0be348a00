package cache

import (
	"hash/maphash"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultListingTTL is how long a directory listing stays fresh.
const DefaultListingTTL = time.Hour

const numShards = 64

// Listing is a cached directory listing.
type Listing struct {
	Names    []string
	Captured time.Time
}

type listingShard struct {
	mu      sync.Mutex
	entries map[string]Listing
}

// ListingCache is a process-wide, concurrency-safe cache of directory listings.
//
// Entries are spread across 64 shards so that listings of unrelated paths never
// contend on one lock. Expired entries are treated as absent on lookup and are
// only removed by CleanStale; there is no background sweeper.
type ListingCache struct {
	shards [numShards]*listingShard
	seed   maphash.Seed

	enabled atomic.Bool
	ttl     atomic.Int64 // nanoseconds

	now func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// NewListingCache creates a disabled listing cache with the default TTL.
func NewListingCache() *ListingCache {
	c := &ListingCache{
		seed: maphash.MakeSeed(),
		now:  time.Now,
	}
	for i := range numShards {
		c.shards[i] = &listingShard{entries: make(map[string]Listing)}
	}
	c.ttl.Store(int64(DefaultListingTTL))
	return c
}

// SetClock replaces the time source. Intended for tests.
func (c *ListingCache) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	c.now = now
}

func (c *ListingCache) shard(key string) *listingShard {
	return c.shards[maphash.String(c.seed, key)%numShards]
}

// Enabled reports whether listings should be cached.
func (c *ListingCache) Enabled() bool { return c.enabled.Load() }

// SetEnabled turns caching on or off. Existing entries are kept.
func (c *ListingCache) SetEnabled(enabled bool) { c.enabled.Store(enabled) }

// TTL returns the current time-to-live.
func (c *ListingCache) TTL() time.Duration { return time.Duration(c.ttl.Load()) }

// SetTTL sets the time-to-live for new and existing entries.
func (c *ListingCache) SetTTL(ttl time.Duration) { c.ttl.Store(int64(ttl)) }

func (c *ListingCache) expired(l Listing, now time.Time) bool {
	return now.Sub(l.Captured) > c.TTL()
}

// Get returns a copy of the listing stored under key, unless it is missing
// or stale.
func (c *ListingCache) Get(key string) ([]string, bool) {
	s := c.shard(key)
	s.mu.Lock()
	l, ok := s.entries[key]
	s.mu.Unlock()

	if !ok || c.expired(l, c.now()) {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return slices.Clone(l.Names), true
}

// Put stores a copy of names under key, stamped with the current time.
func (c *ListingCache) Put(key string, names []string) {
	s := c.shard(key)
	s.mu.Lock()
	s.entries[key] = Listing{Names: slices.Clone(names), Captured: c.now()}
	s.mu.Unlock()
}

// CleanStale removes every expired entry and returns how many were removed.
func (c *ListingCache) CleanStale() int {
	now := c.now()
	removed := 0
	for _, s := range c.shards {
		s.mu.Lock()
		for k, l := range s.entries {
			if c.expired(l, now) {
				delete(s.entries, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// Clear removes all entries.
func (c *ListingCache) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		clear(s.entries)
		s.mu.Unlock()
	}
}

// Len returns the number of stored entries, fresh or stale.
func (c *ListingCache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// Reset clears the cache and restores the defaults (disabled, one hour TTL).
func (c *ListingCache) Reset() {
	c.enabled.Store(false)
	c.ttl.Store(int64(DefaultListingTTL))
	c.Clear()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Stats returns cache statistics.
func (c *ListingCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
