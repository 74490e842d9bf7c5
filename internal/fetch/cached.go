package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/site-builder/internal/db"
)

// CachedFetcher wraps URL fetching with database-backed caching and failure
// backoff, so repeated onboarding runs do not hammer a business's website.
// A nil database degrades it to a plain fetcher.
type CachedFetcher struct {
	db        *db.DB
	options   *Options
	cacheTTL  time.Duration
	skipCache bool // for testing or forcing fresh fetches
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Options   *Options
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL: db.DefaultPageCacheTTL,
		Options:  DefaultOptions(),
	}
}

// NewCachedFetcher creates a new cached fetcher.
func NewCachedFetcher(database *db.DB, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	f := &CachedFetcher{
		db:        database,
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
	}
	if f.options == nil {
		f.options = DefaultOptions()
	}
	if f.cacheTTL == 0 {
		f.cacheTTL = db.DefaultPageCacheTTL
	}
	return f
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool
	PageID    uuid.UUID
}

// Fetch retrieves a URL, using cache if available and fresh.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	return f.FetchForSite(ctx, urlStr, nil, nil)
}

// FetchForSite retrieves a URL with optional site association, so cached
// pages can be listed per site later.
func (f *CachedFetcher) FetchForSite(ctx context.Context, urlStr string, siteID *uuid.UUID, pageType *string) (*CachedResult, error) {
	if !f.skipCache && f.db != nil {
		// Honor permanent-failure and backoff state before touching the network.
		skip, reason, err := f.db.ShouldSkipURL(ctx, urlStr)
		if err != nil {
			return nil, fmt.Errorf("failed to check skip status: %w", err)
		}
		if skip {
			return nil, &Error{URL: urlStr, Message: fmt.Sprintf("URL skipped: %s", reason)}
		}

		if hit, err := f.lookupCache(ctx, urlStr); err != nil {
			return nil, err
		} else if hit != nil {
			return hit, nil
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		if f.db != nil {
			status := 0
			if result != nil {
				status = result.StatusCode
			}
			_ = f.db.RecordFailedFetch(ctx, urlStr, status, err.Error())
		}
		return nil, err
	}
	result.Text, _ = ExtractMainText(result.HTML, BusinessPageSelectors())

	out := &CachedResult{Result: result}
	if f.db != nil {
		page := &db.CachedPage{
			SiteID:      siteID,
			URL:         urlStr,
			PageType:    pageType,
			RawHTML:     &result.HTML,
			ParsedText:  &result.Text,
			HTTPStatus:  &result.StatusCode,
			FetchStatus: db.FetchStatusSuccess,
		}
		// A failed cache write does not fail the fetch.
		if err := f.db.UpsertCachedPage(ctx, page); err == nil {
			out.PageID = page.ID
		}
	}
	return out, nil
}

func (f *CachedFetcher) lookupCache(ctx context.Context, urlStr string) (*CachedResult, error) {
	cached, err := f.db.GetFreshCachedPage(ctx, urlStr, f.cacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to check cache: %w", err)
	}
	if cached == nil {
		return nil, nil
	}

	res := &Result{URL: cached.URL}
	if cached.RawHTML != nil {
		res.HTML = *cached.RawHTML
	}
	if cached.ParsedText != nil {
		res.Text = *cached.ParsedText
	}
	if cached.HTTPStatus != nil {
		res.StatusCode = *cached.HTTPStatus
	}
	return &CachedResult{Result: res, FromCache: true, PageID: cached.ID}, nil
}

// InvalidateCache marks a cached page as stale, forcing a re-fetch on next
// request.
func (f *CachedFetcher) InvalidateCache(ctx context.Context, urlStr string) error {
	if f.db == nil {
		return nil
	}

	page, err := f.db.GetCachedPageByURL(ctx, urlStr)
	if err != nil || page == nil {
		return err
	}

	past := time.Now().Add(-time.Hour)
	page.ExpiresAt = &past
	return f.db.UpsertCachedPage(ctx, page)
}
