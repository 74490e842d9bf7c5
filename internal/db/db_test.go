package db

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSubdomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Ace Plumbing", "ace-plumbing"},
		{"  ace  ", "ace"},
		{"ACE-123", "ace-123"},
		{"ace&sons!", "acesons"},
		{"-ace-", "ace"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeSubdomain(tc.in), "input %q", tc.in)
	}
}

func TestHashContent(t *testing.T) {
	a := HashContent("<html>hello</html>")
	b := HashContent("<html>hello</html>")
	c := HashContent("<html>changed</html>")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestFetchStatusFromHTTP(t *testing.T) {
	assert.Equal(t, FetchStatusSuccess, FetchStatusFromHTTP(http.StatusOK))
	assert.Equal(t, FetchStatusNotFound, FetchStatusFromHTTP(http.StatusNotFound))
	assert.Equal(t, FetchStatusNotFound, FetchStatusFromHTTP(http.StatusGone))
	assert.Equal(t, FetchStatusError, FetchStatusFromHTTP(http.StatusInternalServerError))
	assert.Equal(t, FetchStatusError, FetchStatusFromHTTP(0))
}

func TestIsPermanentHTTPStatus(t *testing.T) {
	assert.True(t, IsPermanentHTTPStatus(http.StatusNotFound))
	assert.True(t, IsPermanentHTTPStatus(http.StatusForbidden))
	assert.False(t, IsPermanentHTTPStatus(http.StatusTooManyRequests))
	assert.False(t, IsPermanentHTTPStatus(http.StatusInternalServerError))
}

func TestCachedPageIsFresh(t *testing.T) {
	page := &CachedPage{FetchedAt: time.Now().Add(-time.Hour)}

	assert.True(t, page.IsFresh(2*time.Hour))
	assert.False(t, page.IsFresh(30*time.Minute))
}

func TestJSONMapRoundTrip(t *testing.T) {
	m := JSONMap{"primary": "#2f6f4e", "accent": "#f0a500"}

	v, err := m.Value()
	require.NoError(t, err)

	var out JSONMap
	require.NoError(t, out.Scan(v))
	assert.Equal(t, m, out)
}

func TestJSONMapNil(t *testing.T) {
	var m JSONMap

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), v)

	var out JSONMap
	require.NoError(t, out.Scan(nil))
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "sites_subdomain_key"}

	assert.True(t, isUniqueViolation(pgErr, "sites_subdomain_key"))
	assert.True(t, isUniqueViolation(pgErr, ""))
	assert.False(t, isUniqueViolation(pgErr, "other_constraint"))
	assert.False(t, isUniqueViolation(errors.New("plain"), ""))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
}
