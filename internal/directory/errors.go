// Package directory provides clients for external business directory
// services: Google Business Profile and the Places API. Both are consumed as
// black boxes; this package owns auth refresh, rate-limit handling, and
// normalization into the internal fact types.
package directory

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies upstream failures so callers can react per the error
// taxonomy: reauthenticate, back off, refresh a stale identifier, or give up.
type ErrorKind string

const (
	// KindReauth means the OAuth token is expired or invalid and cannot be
	// refreshed; the user must reauthenticate.
	KindReauth ErrorKind = "reauth_required"
	// KindRateLimited means the upstream rejected the call for quota reasons.
	KindRateLimited ErrorKind = "rate_limited"
	// KindNotFound means the identifier does not resolve upstream.
	KindNotFound ErrorKind = "not_found"
	// KindUpstream covers all other upstream failures.
	KindUpstream ErrorKind = "upstream"
)

// Error is a typed upstream failure.
type Error struct {
	Kind       ErrorKind
	Source     string // "gbp" or "places"
	Message    string
	RetryAfter time.Duration // set for rate-limit errors when known
	StaleID    bool          // set for not-found errors on stored identifiers
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsReauth reports whether err requires the user to reauthenticate.
func IsReauth(err error) bool {
	return kindOf(err) == KindReauth
}

// IsRateLimited reports whether err is an upstream quota rejection.
func IsRateLimited(err error) bool {
	return kindOf(err) == KindRateLimited
}

// IsNotFound reports whether err means the identifier does not resolve.
func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
