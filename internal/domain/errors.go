package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. empty title, end date before start date, latitude out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a uniqueness rule is violated, either detected by
// the service (nickname taken) or reported by the database (unique index).
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrAllocationExhausted is returned when no unused meeting param could be
// generated within the configured number of attempts. It is a Conflict.
var ErrAllocationExhausted = fmt.Errorf("%w: param allocation exhausted", ErrConflict)

// ErrCreationFailed is returned when the atomic meeting creation was aborted and
// rolled back. The underlying cause stays in the wrap chain.
var ErrCreationFailed = errors.New("creation failed")

// ErrUnauthorized is returned when the actor lacks the auth flag for a
// mutating operation on a meeting.
// Handlers should map this to HTTP 403.
var ErrUnauthorized = errors.New("unauthorized")

// ErrorKind maps an error to a stable label used in logs and error envelopes.
// Anything that is not one of the sentinels is a storage fault.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCreationFailed):
		return "creation_failed"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	}
	return "storage_fault"
}

// IsBusiness reports whether err is an expected business-rule failure that
// should be returned to the caller without being logged as a system error.
func IsBusiness(err error) bool {
	switch ErrorKind(err) {
	case "not_found", "validation", "conflict", "unauthorized":
		return true
	}
	return false
}
