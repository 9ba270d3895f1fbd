package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth covers missing, invalid or expired tokens. Connection-fatal.
	ErrAuth = fmt.Errorf("authentication failed")
	// ErrAuthorization covers non-participants, non-admins and non-owners.
	ErrAuthorization = fmt.Errorf("not allowed")
	ErrNotFound      = fmt.Errorf("not found")
	ErrValidation    = fmt.Errorf("invalid request")
	// ErrStorage hides backing-store details from callers. The full cause
	// is logged server-side only.
	ErrStorage = fmt.Errorf("storage failure")

	ErrWorkerPanic = fmt.Errorf("worker panic")
)

// Wire codes returned to connected clients instead of raw error text.
const (
	CodeAuth      = "AUTH_ERROR"
	CodeForbidden = "FORBIDDEN"
	CodeNotFound  = "NOT_FOUND"
	CodeInvalid   = "VALIDATION_ERROR"
	CodeInternal  = "INTERNAL_ERROR"
)

type retryableError struct {
	err error
}

func (r retryableError) Error() string { return r.err.Error() }
func (r retryableError) Unwrap() error { return r.err }

// MarkRetryable tags a transient storage failure so callers can
// distinguish it from a fatal one.
func MarkRetryable(err error) error {
	if err == nil {
		return nil
	}
	return retryableError{err: err}
}

func IsRetryable(err error) bool {
	var r retryableError
	return errors.As(err, &r)
}

// MapToWire converts an internal error into the compact code/message pair
// sent back on the connection. Storage internals never leak through here.
func MapToWire(err error) (code, message string) {
	switch {
	case errors.Is(err, ErrAuth):
		return CodeAuth, "authentication failed"
	case errors.Is(err, ErrAuthorization):
		return CodeForbidden, "operation not allowed"
	case errors.Is(err, ErrNotFound):
		return CodeNotFound, "resource not found"
	case errors.Is(err, ErrValidation):
		return CodeInvalid, err.Error()
	default:
		return CodeInternal, "internal error"
	}
}
