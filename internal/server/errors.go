// Package server provides the HTTP REST API for the site builder dashboard.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/site-builder/internal/crm"
	"github.com/jonathan/site-builder/internal/db"
	"github.com/jonathan/site-builder/internal/directory"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus maps an error to the HTTP status code the dashboard API should
// return for it. Upstream directory and CRM failures are translated too:
// expired upstream credentials and generic upstream failures become 502,
// quota exhaustion becomes 429 so clients know to back off, and a stale
// stored identifier becomes 404.
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrPasswordMismatch:
		return http.StatusUnauthorized
	case *ErrUserNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	}

	if errors.Is(err, db.ErrSubdomainTaken) {
		return http.StatusConflict
	}

	var dirErr *directory.Error
	if errors.As(err, &dirErr) {
		switch dirErr.Kind {
		case directory.KindReauth:
			return http.StatusBadGateway
		case directory.KindRateLimited:
			return http.StatusTooManyRequests
		case directory.KindNotFound:
			return http.StatusNotFound
		default:
			return http.StatusBadGateway
		}
	}

	var crmErr *crm.Error
	if errors.As(err, &crmErr) {
		if crmErr.Kind == crm.KindRateLimited {
			return http.StatusTooManyRequests
		}
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}
