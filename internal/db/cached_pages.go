package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const cachedPageColumns = `id, site_id, url, page_type, raw_html, parsed_text, content_hash,
       http_status, fetch_status, error_message, is_permanent_failure, retry_count, retry_after,
       fetched_at, expires_at, last_accessed_at, created_at, updated_at`

func scanCachedPage(row pgx.Row) (*CachedPage, error) {
	var p CachedPage
	err := row.Scan(&p.ID, &p.SiteID, &p.URL, &p.PageType, &p.RawHTML, &p.ParsedText, &p.ContentHash,
		&p.HTTPStatus, &p.FetchStatus, &p.ErrorMessage, &p.IsPermanentFailure, &p.RetryCount, &p.RetryAfter,
		&p.FetchedAt, &p.ExpiresAt, &p.LastAccessedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetCachedPageByURL retrieves a cached page by URL. Returns (nil, nil) when
// the URL has never been fetched.
func (db *DB) GetCachedPageByURL(ctx context.Context, pageURL string) (*CachedPage, error) {
	page, err := scanCachedPage(db.pool.QueryRow(ctx,
		`SELECT `+cachedPageColumns+` FROM cached_pages WHERE url = $1`, pageURL))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached page: %w", err)
	}
	return page, nil
}

// GetFreshCachedPage retrieves a page only if it is fresh and was fetched
// successfully.
func (db *DB) GetFreshCachedPage(ctx context.Context, pageURL string, maxAge time.Duration) (*CachedPage, error) {
	page, err := db.GetCachedPageByURL(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, nil
	}

	if !page.IsFresh(maxAge) {
		return nil, nil
	}
	if page.FetchStatus != FetchStatusSuccess {
		return nil, nil
	}

	_ = db.TouchCachedPage(ctx, page.ID)
	return page, nil
}

// ShouldSkipURL reports whether a URL should not be fetched because of a
// previous permanent failure or an active retry backoff.
func (db *DB) ShouldSkipURL(ctx context.Context, pageURL string) (bool, string, error) {
	page, err := db.GetCachedPageByURL(ctx, pageURL)
	if err != nil {
		return false, "", err
	}
	if page == nil {
		return false, "", nil
	}

	if page.IsPermanentFailure {
		reason := "permanent failure"
		if page.ErrorMessage != nil {
			reason = *page.ErrorMessage
		}
		return true, reason, nil
	}

	if page.RetryAfter != nil && time.Now().Before(*page.RetryAfter) {
		return true, "retry backoff", nil
	}

	return false, "", nil
}

// UpsertCachedPage inserts or updates a page after a successful fetch.
func (db *DB) UpsertCachedPage(ctx context.Context, page *CachedPage) error {
	var contentHash *string
	if page.RawHTML != nil {
		hash := HashContent(*page.RawHTML)
		contentHash = &hash
	}

	expiresAt := page.ExpiresAt
	if expiresAt == nil {
		t := time.Now().Add(DefaultPageCacheTTL)
		expiresAt = &t
	}

	fetchStatus := page.FetchStatus
	if fetchStatus == "" {
		fetchStatus = FetchStatusSuccess
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO cached_pages (site_id, url, page_type, raw_html, parsed_text, content_hash,
		                           http_status, fetch_status, error_message, is_permanent_failure,
		                           retry_count, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, NOW(), $11)
		 ON CONFLICT (url) DO UPDATE SET
		     site_id = COALESCE($1, cached_pages.site_id),
		     page_type = COALESCE($3, cached_pages.page_type),
		     raw_html = $4,
		     parsed_text = $5,
		     content_hash = $6,
		     http_status = $7,
		     fetch_status = $8,
		     error_message = $9,
		     is_permanent_failure = $10,
		     retry_count = 0,
		     retry_after = NULL,
		     fetched_at = NOW(),
		     expires_at = $11,
		     updated_at = NOW()
		 RETURNING id, fetched_at, created_at, updated_at`,
		page.SiteID, page.URL, page.PageType, page.RawHTML, page.ParsedText, contentHash,
		page.HTTPStatus, fetchStatus, page.ErrorMessage, page.IsPermanentFailure, expiresAt,
	).Scan(&page.ID, &page.FetchedAt, &page.CreatedAt, &page.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert cached page: %w", err)
	}
	return nil
}

// RecordFailedFetch records a failed fetch with exponential backoff.
// Schedule: 1 min, 5 min, 25 min, then capped at 2 hours. Permanent failures
// never retry.
func (db *DB) RecordFailedFetch(ctx context.Context, pageURL string, httpStatus int, errorMsg string) error {
	fetchStatus := FetchStatusFromHTTP(httpStatus)
	isPermanent := IsPermanentHTTPStatus(httpStatus)

	_, err := db.pool.Exec(ctx,
		`INSERT INTO cached_pages (url, http_status, fetch_status, error_message, is_permanent_failure, retry_count, retry_after, fetched_at)
		 VALUES ($1, $2, $3, $4, $5, 1,
		         CASE WHEN $5 THEN NULL ELSE NOW() + INTERVAL '1 minute' END,
		         NOW())
		 ON CONFLICT (url) DO UPDATE SET
		     http_status = $2,
		     fetch_status = $3,
		     error_message = $4,
		     is_permanent_failure = $5 OR cached_pages.is_permanent_failure,
		     retry_count = cached_pages.retry_count + 1,
		     retry_after = CASE
		         WHEN $5 OR cached_pages.is_permanent_failure THEN NULL
		         ELSE NOW() + LEAST(
		             INTERVAL '1 minute' * POWER(5, LEAST(cached_pages.retry_count, 3)),
		             INTERVAL '2 hours'
		         )
		     END,
		     fetched_at = NOW(),
		     updated_at = NOW()`,
		pageURL, httpStatus, fetchStatus, errorMsg, isPermanent,
	)
	if err != nil {
		return fmt.Errorf("failed to record failed fetch: %w", err)
	}
	return nil
}

// TouchCachedPage updates the last_accessed_at timestamp.
func (db *DB) TouchCachedPage(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE cached_pages SET last_accessed_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to touch cached page: %w", err)
	}
	return nil
}

// DeleteExpiredPages removes pages past their expires_at.
func (db *DB) DeleteExpiredPages(ctx context.Context) (int64, error) {
	result, err := db.pool.Exec(ctx, `DELETE FROM cached_pages WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired pages: %w", err)
	}
	return result.RowsAffected(), nil
}
