package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/site-builder/internal/cache"
)

func newGBPTestClient(t *testing.T, handler http.Handler) (*GBPClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewGBPClient(StaticToken("test-token"), nil)
	client.BaseURL = server.URL
	client.PageDelay = time.Millisecond
	return client, server
}

func TestGBPFetchLocation(t *testing.T) {
	client, _ := newGBPTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"title": "Ace Plumbing",
			"profile": {"description": "24/7 emergency plumber"},
			"categories": {"primaryCategory": {"displayName": "Plumber"}},
			"phoneNumbers": {"primaryPhone": "(555) 123-4567"},
			"storefrontAddress": {"addressLines": ["12 Main St"], "locality": "Springfield", "administrativeArea": "IL", "postalCode": "62704"}
		}`))
	}))

	loc, err := client.FetchLocation(context.Background(), "12345")

	require.NoError(t, err)
	assert.Equal(t, "Ace Plumbing", loc.Title)
	assert.Equal(t, "24/7 emergency plumber", loc.Profile.Description)
	assert.Equal(t, "Plumber", loc.Categories.PrimaryCategory.DisplayName)
}

func TestGBPFetchLocation_CachesResponse(t *testing.T) {
	var calls int32
	client, _ := newGBPTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"title": "Ace Plumbing"}`))
	}))
	client.Cache = cache.New(cache.Options{DefaultTTL: time.Minute})
	defer client.Cache.Stop()

	_, err := client.FetchLocation(context.Background(), "12345")
	require.NoError(t, err)
	_, err = client.FetchLocation(context.Background(), "12345")
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "second fetch must hit the cache")
}

func TestGBPFetchLocation_Unauthorized(t *testing.T) {
	client, _ := newGBPTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	_, err := client.FetchLocation(context.Background(), "12345")

	assert.True(t, IsReauth(err))
}

func TestGBPFetchLocation_NotFoundMarksStaleID(t *testing.T) {
	client, _ := newGBPTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.FetchLocation(context.Background(), "gone")

	require.True(t, IsNotFound(err))
	assert.True(t, err.(*Error).StaleID)
}

func TestGBPFetchPhotoURLs_PartialOnRateLimit(t *testing.T) {
	var calls int32
	client, _ := newGBPTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Write([]byte(`{"mediaItems": [{"googleUrl": "photo1"}, {"googleUrl": "photo2"}], "nextPageToken": "page2"}`))
			return
		}
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	urls, err := client.FetchPhotoURLs(context.Background(), "12345")

	require.True(t, IsRateLimited(err))
	assert.Equal(t, []string{"photo1", "photo2"}, urls, "collected photos are returned with the error")
	assert.Equal(t, 30*time.Second, err.(*Error).RetryAfter)
}

func TestGBPFetchPhotoURLs_StopsAtLastPage(t *testing.T) {
	var calls int32
	client, _ := newGBPTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"mediaItems": [{"googleUrl": "only"}]}`))
	}))

	urls, err := client.FetchPhotoURLs(context.Background(), "12345")

	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, urls)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
