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
)

func TestRefreshingTokenSource_RefreshesAndCaches(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		w.Write([]byte(`{"access_token": "fresh-token", "expires_in": 3600}`))
	}))
	defer server.Close()

	ts := &RefreshingTokenSource{
		TokenURL:     server.URL,
		ClientID:     "client",
		ClientSecret: "secret",
		RefreshToken: "refresh",
	}

	token, err := ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)

	// Second call within the expiry window must not hit the endpoint again.
	_, err = ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRefreshingTokenSource_RefreshesNearExpiry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"access_token": "fresh-token", "expires_in": 1}`))
	}))
	defer server.Close()

	ts := &RefreshingTokenSource{TokenURL: server.URL, RefreshToken: "refresh"}

	_, err := ts.Token(context.Background())
	require.NoError(t, err)

	// expires_in of one second is inside the refresh skew, so the next call
	// refreshes again.
	_, err = ts.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRefreshingTokenSource_RejectedRefreshIsReauth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	ts := &RefreshingTokenSource{TokenURL: server.URL, RefreshToken: "dead"}

	_, err := ts.Token(context.Background())
	assert.True(t, IsReauth(err))
}

func TestStaticToken(t *testing.T) {
	token, err := StaticToken("abc").Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}

func TestRetryAfterHint(t *testing.T) {
	resp := &http.Response{Header: http.Header{"Retry-After": []string{"45"}}}
	assert.Equal(t, 45*time.Second, retryAfterHint(resp))

	resp = &http.Response{Header: http.Header{}}
	assert.Equal(t, time.Duration(0), retryAfterHint(resp))
}
