package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucket_BurstThenDeny(t *testing.T) {
	// 2 token burst, negligible refill.
	bucket := newTokenBucket(2, 0.001)

	assert.True(t, bucket.allow())
	assert.True(t, bucket.allow())
	assert.False(t, bucket.allow(), "third request should exhaust the burst")
}

func TestTokenBucket_Refills(t *testing.T) {
	// 100 tokens/second refills a 1-token bucket within a few ms.
	bucket := newTokenBucket(1, 100)

	require.True(t, bucket.allow())
	require.False(t, bucket.allow())

	time.Sleep(30 * time.Millisecond)
	assert.True(t, bucket.allow(), "bucket should have refilled")
}

func TestTokenBucket_Status(t *testing.T) {
	bucket := newTokenBucket(5, 1)

	remaining, reset := bucket.getStatus()
	assert.Equal(t, 5, remaining)
	assert.WithinDuration(t, time.Now(), reset, time.Second, "full bucket resets now")

	bucket.allow()
	remaining, reset = bucket.getStatus()
	assert.Equal(t, 4, remaining)
	assert.True(t, reset.After(time.Now()), "drained bucket resets in the future")
}

func newTestLimiter(configs []EndpointConfig) *Limiter {
	return NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 0, // no background sweep in tests
		Whitelist:       map[string]bool{"friend": true},
		Blacklist:       map[string]bool{"foe": true},
		EndpointConfigs: configs,
	})
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter := newTestLimiter([]EndpointConfig{
		{Path: "/runs", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
	})
	defer limiter.Stop()

	allowed, info := limiter.Allow("client-1", "/runs", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 10, info.Limit)

	allowed, _ = limiter.Allow("client-1", "/runs", "POST")
	assert.True(t, allowed)

	allowed, info = limiter.Allow("client-1", "/runs", "POST")
	assert.False(t, allowed, "burst of 2 exhausted")
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsIsolated(t *testing.T) {
	limiter := newTestLimiter([]EndpointConfig{
		{Path: "/runs", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("client-1", "/runs", "POST")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("client-1", "/runs", "POST")
	require.False(t, allowed)

	allowed, _ = limiter.Allow("client-2", "/runs", "POST")
	assert.True(t, allowed, "another client gets its own bucket")
}

func TestLimiter_PrefixMatch(t *testing.T) {
	limiter := newTestLimiter([]EndpointConfig{
		{Path: "/sites/", Method: "DELETE", Limit: 10, Window: time.Hour, Burst: 1},
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("client-1", "/sites/abc-123", "DELETE")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("client-1", "/sites/def-456", "DELETE")
	assert.False(t, allowed, "prefix-matched endpoints share one bucket")
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter := newTestLimiter([]EndpointConfig{
		{Path: "/runs", Method: "POST", Limit: 10, Window: time.Hour, Burst: 1},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("friend", "/runs", "POST")
		assert.True(t, allowed, "whitelisted client is never limited")
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	limiter := newTestLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("foe", "/sites", "GET")
	assert.False(t, allowed)
	assert.False(t, info.Allowed)
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	limiter := newTestLimiter(nil)
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := limiter.Allow("client-1", "/health", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("anyone", "/runs", "POST")
	assert.True(t, allowed)
}

func TestLimiter_Sweep(t *testing.T) {
	limiter := newTestLimiter(nil)
	defer limiter.Stop()

	limiter.Allow("client-1", "/sites", "GET")

	limiter.accessMu.Lock()
	for key := range limiter.lastAccess {
		limiter.lastAccess[key] = time.Now().Add(-2 * time.Hour)
	}
	limiter.accessMu.Unlock()

	limiter.sweep()

	limiter.mu.RLock()
	defer limiter.mu.RUnlock()
	assert.Empty(t, limiter.buckets, "idle buckets are removed")
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/runs", Method: "POST", Limit: 10},
		{Path: "/sites/", Method: "PUT", Limit: 100},
	}

	tests := []struct {
		name   string
		path   string
		method string
		want   int // expected Limit, -1 for nil
	}{
		{"exact match", "/runs", "POST", 10},
		{"prefix match", "/sites/abc/seo", "PUT", 100},
		{"method mismatch", "/runs", "GET", -1},
		{"no match", "/templates", "GET", -1},
		{"health unlimited", "/health", "GET", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.want == -1 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Limit)
		})
	}
}
