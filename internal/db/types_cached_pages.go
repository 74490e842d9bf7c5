package db

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultPageCacheTTL is how long a fetched page is served from cache before
// a re-fetch. Business websites change rarely.
const DefaultPageCacheTTL = 7 * 24 * time.Hour

// Fetch status values for cached pages.
const (
	FetchStatusSuccess  = "success"
	FetchStatusNotFound = "not_found"
	FetchStatusError    = "error"
)

// CachedPage is a fetched page of a business's existing website, cached for
// enrichment (logo, colors, social links) with failure backoff state.
type CachedPage struct {
	ID                 uuid.UUID  `json:"id"`
	SiteID             *uuid.UUID `json:"site_id,omitempty"`
	URL                string     `json:"url"`
	PageType           *string    `json:"page_type,omitempty"` // "home", "about", "contact"
	RawHTML            *string    `json:"-"`
	ParsedText         *string    `json:"parsed_text,omitempty"`
	ContentHash        *string    `json:"content_hash,omitempty"`
	HTTPStatus         *int       `json:"http_status,omitempty"`
	FetchStatus        string     `json:"fetch_status"`
	ErrorMessage       *string    `json:"error_message,omitempty"`
	IsPermanentFailure bool       `json:"is_permanent_failure"`
	RetryCount         int        `json:"retry_count"`
	RetryAfter         *time.Time `json:"retry_after,omitempty"`
	FetchedAt          time.Time  `json:"fetched_at"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	LastAccessedAt     *time.Time `json:"last_accessed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsFresh reports whether the page was fetched within maxAge.
func (p *CachedPage) IsFresh(maxAge time.Duration) bool {
	return time.Since(p.FetchedAt) < maxAge
}

// HashContent returns a hex SHA-256 of page content, used to detect changes.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// FetchStatusFromHTTP maps an HTTP status to a fetch status.
func FetchStatusFromHTTP(status int) string {
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return FetchStatusNotFound
	case status >= 200 && status < 300:
		return FetchStatusSuccess
	default:
		return FetchStatusError
	}
}

// IsPermanentHTTPStatus reports whether a status means the URL will never
// succeed and should not be retried.
func IsPermanentHTTPStatus(status int) bool {
	switch status {
	case http.StatusNotFound, http.StatusGone, http.StatusUnauthorized, http.StatusForbidden:
		return true
	default:
		return false
	}
}
