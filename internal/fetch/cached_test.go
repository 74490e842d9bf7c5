package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/site-builder/internal/db"
)

func TestDefaultCachedFetcherConfig(t *testing.T) {
	config := DefaultCachedFetcherConfig()

	assert.Equal(t, db.DefaultPageCacheTTL, config.CacheTTL)
	assert.False(t, config.SkipCache)
	assert.NotNil(t, config.Options)
}

func TestNewCachedFetcher_NilConfigDefaults(t *testing.T) {
	f := NewCachedFetcher(nil, nil)

	assert.Equal(t, db.DefaultPageCacheTTL, f.cacheTTL)
	assert.NotNil(t, f.options)
}

func TestNewCachedFetcher_ZeroTTLDefaults(t *testing.T) {
	f := NewCachedFetcher(nil, &CachedFetcherConfig{CacheTTL: 0})
	assert.Equal(t, db.DefaultPageCacheTTL, f.cacheTTL)

	f = NewCachedFetcher(nil, &CachedFetcherConfig{CacheTTL: time.Hour})
	assert.Equal(t, time.Hour, f.cacheTTL)
}

// Without a database the fetcher degrades to a plain fetch.
func TestFetch_NoDatabase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><main>hello from the business site</main></body></html>"))
	}))
	defer srv.Close()

	f := NewCachedFetcher(nil, nil)

	result, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.False(t, result.FromCache)
	assert.Contains(t, result.Text, "hello from the business site")
}

func TestFetch_NoDatabase_PropagatesFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewCachedFetcher(nil, nil)

	_, err := f.Fetch(context.Background(), srv.URL)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
}

func TestInvalidateCache_NoDatabaseIsNoOp(t *testing.T) {
	f := NewCachedFetcher(nil, nil)
	assert.NoError(t, f.InvalidateCache(context.Background(), "https://example.com"))
}
