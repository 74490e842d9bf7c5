package directory

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport_BothSources(t *testing.T) {
	gbpClient, _ := newGBPTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "reviews:summary"):
			w.Write([]byte(`{"averageRating": 4.8, "totalReviewCount": 120}`))
		case strings.Contains(r.URL.Path, "/media"):
			w.Write([]byte(`{"mediaItems": [{"googleUrl": "p1"}]}`))
		default:
			w.Write([]byte(`{"title": "Ace Plumbing", "categories": {"primaryCategory": {"displayName": "Plumber"}}}`))
		}
	}))
	placesClient := newPlacesTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(placePayload))
	}))

	im := &Importer{GBP: gbpClient, Places: placesClient}
	result, err := im.Import(context.Background(), "loc-1", "place-1")

	require.NoError(t, err)
	require.NotNil(t, result.Sources.GBP)
	require.NotNil(t, result.Sources.Places)
	assert.Equal(t, "Ace Plumbing", result.Record.Name)
	assert.Equal(t, "plumbing", result.Record.Industry)
	assert.Empty(t, result.SoftErrors)
}

func TestImport_PlacesFailureDegrades(t *testing.T) {
	gbpClient, _ := newGBPTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "reviews:summary"):
			w.Write([]byte(`{}`))
		case strings.Contains(r.URL.Path, "/media"):
			w.Write([]byte(`{}`))
		default:
			w.Write([]byte(`{"title": "Ace Plumbing"}`))
		}
	}))
	placesClient := newPlacesTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	im := &Importer{GBP: gbpClient, Places: placesClient}
	result, err := im.Import(context.Background(), "loc-1", "place-1")

	require.NoError(t, err, "one healthy source is enough")
	assert.NotNil(t, result.Sources.GBP)
	assert.Nil(t, result.Sources.Places)
	assert.NotEmpty(t, result.SoftErrors)
}

func TestImport_AllSourcesFailing(t *testing.T) {
	gbpClient, _ := newGBPTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	im := &Importer{GBP: gbpClient}
	_, err := im.Import(context.Background(), "loc-1", "")

	assert.Error(t, err)
}

func TestImport_ReauthAbortsImport(t *testing.T) {
	gbpClient, _ := newGBPTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	placesClient := newPlacesTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(placePayload))
	}))

	im := &Importer{GBP: gbpClient, Places: placesClient}
	_, err := im.Import(context.Background(), "loc-1", "place-1")

	assert.True(t, IsReauth(err), "auth failures must surface, not degrade")
}

func TestImport_NoIdentifiers(t *testing.T) {
	im := &Importer{}
	_, err := im.Import(context.Background(), "", "")
	assert.Error(t, err)
}
