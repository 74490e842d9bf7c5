package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/site-builder/internal/cache"
)

// DefaultGBPBaseURL is the production Business Profile API endpoint.
const DefaultGBPBaseURL = "https://mybusinessbusinessinformation.googleapis.com/v1"

// pageDelay is the fixed delay between sequential paginated calls. The
// upstream enforces its own quota; this just keeps us under the per-minute
// edit/read limits without a token bucket.
const pageDelay = 500 * time.Millisecond

// maxPhotoPages caps pagination so a media-heavy profile cannot stall an
// onboarding run.
const maxPhotoPages = 4

// GBPClient talks to the Google Business Profile APIs for one connected
// account.
type GBPClient struct {
	BaseURL    string
	Tokens     TokenSource
	HTTPClient *http.Client
	Cache      *cache.TTLCache // optional; avoids refetching within the TTL
	PageDelay  time.Duration
}

// NewGBPClient creates a client with production defaults.
func NewGBPClient(tokens TokenSource, c *cache.TTLCache) *GBPClient {
	return &GBPClient{
		BaseURL:    DefaultGBPBaseURL,
		Tokens:     tokens,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Cache:      c,
		PageDelay:  pageDelay,
	}
}

// gbpLocation is the wire shape of a Business Profile location, reduced to
// the fields we consume.
type gbpLocation struct {
	Title   string `json:"title"`
	Profile struct {
		Description string `json:"description"`
	} `json:"profile"`
	Categories struct {
		PrimaryCategory struct {
			DisplayName string `json:"displayName"`
		} `json:"primaryCategory"`
		AdditionalCategories []struct {
			DisplayName string `json:"displayName"`
		} `json:"additionalCategories"`
	} `json:"categories"`
	PhoneNumbers struct {
		PrimaryPhone string `json:"primaryPhone"`
	} `json:"phoneNumbers"`
	StorefrontAddress struct {
		AddressLines       []string `json:"addressLines"`
		Locality           string   `json:"locality"`
		AdministrativeArea string   `json:"administrativeArea"`
		PostalCode         string   `json:"postalCode"`
	} `json:"storefrontAddress"`
	WebsiteURI string `json:"websiteUri"`
	LatLng     struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"latlng"`
	RegularHours struct {
		Periods []gbpHoursPeriod `json:"periods"`
	} `json:"regularHours"`
	Attributes []struct {
		Name   string `json:"name"`
		Values []any  `json:"values"`
	} `json:"attributes"`
	ServiceItems []struct {
		StructuredServiceItem struct {
			ServiceTypeID string `json:"serviceTypeId"`
		} `json:"structuredServiceItem"`
		FreeFormServiceItem struct {
			Label struct {
				DisplayName string `json:"displayName"`
			} `json:"label"`
		} `json:"freeFormServiceItem"`
	} `json:"serviceItems"`
}

type gbpHoursPeriod struct {
	OpenDay   string `json:"openDay"`
	OpenTime  string `json:"openTime"`
	CloseDay  string `json:"closeDay"`
	CloseTime string `json:"closeTime"`
}

type gbpMediaPage struct {
	MediaItems []struct {
		GoogleURL string `json:"googleUrl"`
	} `json:"mediaItems"`
	NextPageToken string `json:"nextPageToken"`
}

type gbpReviewSummary struct {
	AverageRating    float64 `json:"averageRating"`
	TotalReviewCount int     `json:"totalReviewCount"`
}

// FetchLocation retrieves and caches the raw location payload.
func (c *GBPClient) FetchLocation(ctx context.Context, locationID string) (*gbpLocation, error) {
	cacheKey := "gbp:location:" + locationID
	if c.Cache != nil {
		if cached, ok := c.Cache.Get(cacheKey); ok {
			if loc, ok := cached.(*gbpLocation); ok {
				return loc, nil
			}
		}
	}

	var loc gbpLocation
	path := fmt.Sprintf("/locations/%s?readMask=title,profile,categories,phoneNumbers,storefrontAddress,websiteUri,latlng,regularHours,attributes,serviceItems", locationID)
	if err := c.getJSON(ctx, path, &loc); err != nil {
		return nil, err
	}

	if c.Cache != nil {
		c.Cache.Set(cacheKey, &loc)
	}
	return &loc, nil
}

// FetchReviewSummary retrieves the aggregate review signal for a location.
func (c *GBPClient) FetchReviewSummary(ctx context.Context, locationID string) (*gbpReviewSummary, error) {
	var summary gbpReviewSummary
	if err := c.getJSON(ctx, fmt.Sprintf("/locations/%s/reviews:summary", locationID), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// FetchPhotoURLs pages through the location's media with a fixed delay
// between calls. A rate-limit rejection aborts the remaining pages and the
// URLs collected so far are returned alongside the error.
func (c *GBPClient) FetchPhotoURLs(ctx context.Context, locationID string) ([]string, error) {
	var urls []string
	pageToken := ""

	for page := 0; page < maxPhotoPages; page++ {
		if page > 0 {
			delay := c.PageDelay
			if delay <= 0 {
				delay = pageDelay
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return urls, ctx.Err()
			}
		}

		path := fmt.Sprintf("/locations/%s/media?pageSize=50", locationID)
		if pageToken != "" {
			path += "&pageToken=" + pageToken
		}

		var pageBody gbpMediaPage
		if err := c.getJSON(ctx, path, &pageBody); err != nil {
			if IsRateLimited(err) {
				// Partial results are still useful for scoring.
				return urls, err
			}
			return urls, err
		}

		for _, item := range pageBody.MediaItems {
			if item.GoogleURL != "" {
				urls = append(urls, item.GoogleURL)
			}
		}

		if pageBody.NextPageToken == "" {
			break
		}
		pageToken = pageBody.NextPageToken
	}

	return urls, nil
}

// getJSON performs an authenticated GET and decodes the response, mapping
// upstream status codes onto the error taxonomy.
func (c *GBPClient) getJSON(ctx context.Context, path string, out any) error {
	token, err := c.Tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build GBP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return &Error{Kind: KindUpstream, Source: "gbp", Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &Error{Kind: KindReauth, Source: "gbp", Message: fmt.Sprintf("upstream returned %d", resp.StatusCode)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, Source: "gbp", Message: "quota exceeded", RetryAfter: retryAfterHint(resp)}
	case resp.StatusCode == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Source: "gbp", Message: "location not found", StaleID: true}
	case resp.StatusCode != http.StatusOK:
		return &Error{Kind: KindUpstream, Source: "gbp", Message: fmt.Sprintf("upstream returned %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindUpstream, Source: "gbp", Message: "malformed response", Cause: err}
	}
	return nil
}

// retryAfterHint parses the Retry-After header when present.
func retryAfterHint(resp *http.Response) time.Duration {
	raw := resp.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
