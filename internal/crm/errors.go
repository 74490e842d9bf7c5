// Package crm is a client for the CRM provisioning API. Each onboarded site
// gets a CRM sub-account (a "location"), an admin user, website custom
// fields, and an owner contact.
package crm

import "fmt"

// ErrorKind classifies CRM API failures.
type ErrorKind string

const (
	// KindAuth means the API key was rejected.
	KindAuth ErrorKind = "auth"
	// KindValidation means the request payload was rejected with detail.
	KindValidation ErrorKind = "validation"
	// KindRateLimited means the API refused the call for quota reasons.
	KindRateLimited ErrorKind = "rate_limited"
	// KindUpstream covers all other API failures.
	KindUpstream ErrorKind = "upstream"
)

// Error is a typed CRM API failure.
type Error struct {
	Kind    ErrorKind
	Op      string // API operation, e.g. "create location"
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("crm: %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("crm: %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsAuth reports whether err means the CRM credentials are invalid.
func IsAuth(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindAuth
}

// IsValidation reports whether err is a payload rejection.
func IsValidation(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindValidation
}
