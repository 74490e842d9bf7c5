// Package cache provides an in-process TTL cache used to avoid redundant
// calls to rate-limited upstream APIs. The cache is an explicit service
// object injected into callers, not a package-level singleton. Each process
// has its own cache, so freshness can differ across instances; callers must
// tolerate that. Concurrent misses on the same key may both perform the
// expensive call; the thundering herd is accepted.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// TTLCache is a mutex-guarded map with per-entry expiry. Entries are
// invalidated on read; a periodic sweep keeps long-lived processes from
// accumulating dead entries.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]entry

	defaultTTL  time.Duration
	sweepTicker *time.Ticker
	sweepStop   chan struct{}
}

// Options configures a TTLCache.
type Options struct {
	DefaultTTL    time.Duration
	SweepInterval time.Duration // 0 disables the background sweep
}

// DefaultOptions returns the TTL and sweep cadence used for directory API
// responses.
func DefaultOptions() Options {
	return Options{
		DefaultTTL:    15 * time.Minute,
		SweepInterval: 5 * time.Minute,
	}
}

// New creates a TTLCache and starts its sweep goroutine if configured.
func New(opts Options) *TTLCache {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = DefaultOptions().DefaultTTL
	}

	c := &TTLCache{
		entries:    make(map[string]entry),
		defaultTTL: opts.DefaultTTL,
	}

	if opts.SweepInterval > 0 {
		c.sweepTicker = time.NewTicker(opts.SweepInterval)
		c.sweepStop = make(chan struct{})
		go c.sweep()
	}

	return c
}

// Get returns the cached value for key if present and unexpired.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// GetStale returns the cached value even when expired, reporting whether the
// entry was still fresh. Used to serve stale data when the upstream is
// rate-limiting us.
func (c *TTLCache) GetStale(key string) (value any, fresh bool, found bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, false
	}
	return e.value, time.Now().Before(e.expiresAt), true
}

// Set stores a value under key with the default TTL.
func (c *TTLCache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores a value under key with an explicit TTL.
func (c *TTLCache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Delete removes a key.
func (c *TTLCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of entries, expired ones included.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stop halts the sweep goroutine. Safe to call when no sweep was started.
func (c *TTLCache) Stop() {
	if c.sweepTicker != nil {
		c.sweepTicker.Stop()
	}
	if c.sweepStop != nil {
		close(c.sweepStop)
		c.sweepStop = nil
	}
}

func (c *TTLCache) sweep() {
	for {
		select {
		case <-c.sweepTicker.C:
			c.evictExpired()
		case <-c.sweepStop:
			return
		}
	}
}

func (c *TTLCache) evictExpired() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}
