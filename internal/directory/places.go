package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jonathan/site-builder/internal/cache"
)

// DefaultPlacesBaseURL is the production Places API endpoint.
const DefaultPlacesBaseURL = "https://places.googleapis.com/v1"

// PlacesClient talks to the Places API with an API key. Unlike GBP there is
// no OAuth flow; the key is project-scoped.
type PlacesClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Cache      *cache.TTLCache
}

// NewPlacesClient creates a client with production defaults.
func NewPlacesClient(apiKey string, c *cache.TTLCache) *PlacesClient {
	return &PlacesClient{
		BaseURL:    DefaultPlacesBaseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Cache:      c,
	}
}

// placeDetails is the wire shape of a place, reduced to the fields we consume.
type placeDetails struct {
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	Types            []string `json:"types"`
	FormattedAddress string   `json:"formattedAddress"`
	NationalPhone    string   `json:"nationalPhoneNumber"`
	WebsiteURI       string   `json:"websiteUri"`
	Rating           float64  `json:"rating"`
	UserRatingCount  int      `json:"userRatingCount"`
	PriceLevel       string   `json:"priceLevel"`
	Location         struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Photos []struct {
		Name string `json:"name"`
	} `json:"photos"`
	AddressComponents []addressComponent `json:"addressComponents"`
}

type addressComponent struct {
	LongText  string   `json:"longText"`
	ShortText string   `json:"shortText"`
	Types     []string `json:"types"`
}

// FetchDetails retrieves and caches place details for a place ID.
// When the upstream rate-limits us and a stale cached copy exists, the stale
// copy is returned instead of the error.
func (c *PlacesClient) FetchDetails(ctx context.Context, placeID string) (*placeDetails, error) {
	cacheKey := "places:details:" + placeID
	if c.Cache != nil {
		if cached, ok := c.Cache.Get(cacheKey); ok {
			if details, ok := cached.(*placeDetails); ok {
				return details, nil
			}
		}
	}

	fields := "displayName,types,formattedAddress,nationalPhoneNumber,websiteUri,rating,userRatingCount,priceLevel,location,photos,addressComponents"
	endpoint := fmt.Sprintf("%s/places/%s?fields=%s&key=%s", c.BaseURL, url.PathEscape(placeID), fields, url.QueryEscape(c.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Places request: %w", err)
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Source: "places", Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		rateErr := &Error{Kind: KindRateLimited, Source: "places", Message: "quota exceeded", RetryAfter: retryAfterHint(resp)}
		if c.Cache != nil {
			if stale, _, found := c.Cache.GetStale(cacheKey); found {
				if details, ok := stale.(*placeDetails); ok {
					return details, nil
				}
			}
		}
		return nil, rateErr
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		// The Places API reports unknown/expired place IDs as 400 INVALID_ARGUMENT.
		return nil, &Error{Kind: KindNotFound, Source: "places", Message: "place not found", StaleID: true}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &Error{Kind: KindReauth, Source: "places", Message: fmt.Sprintf("upstream returned %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, &Error{Kind: KindUpstream, Source: "places", Message: fmt.Sprintf("upstream returned %d", resp.StatusCode)}
	}

	var details placeDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, &Error{Kind: KindUpstream, Source: "places", Message: "malformed response", Cause: err}
	}

	if c.Cache != nil {
		c.Cache.Set(cacheKey, &details)
	}
	return &details, nil
}

// priceLevelValue maps the Places enum onto the 1-4 scale, 0 when unknown.
func priceLevelValue(level string) int {
	switch level {
	case "PRICE_LEVEL_INEXPENSIVE":
		return 1
	case "PRICE_LEVEL_MODERATE":
		return 2
	case "PRICE_LEVEL_EXPENSIVE":
		return 3
	case "PRICE_LEVEL_VERY_EXPENSIVE":
		return 4
	default:
		return 0
	}
}
