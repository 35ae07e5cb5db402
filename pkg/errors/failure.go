package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure is the value a route handler returns when it cannot complete.
// Status is optional: zero means "unspecified" and is treated as 500.
// Message is shown to the caller only for non-internal statuses. Err is
// an optional cause that is logged but never sent to the caller.
type Failure struct {
	Status  int
	Message string
	Err     error

	// Stack holds a captured stack trace when the failure came from a panic.
	Stack []byte
}

// Error implements the error interface
func (f *Failure) Error() string {
	switch {
	case f.Err != nil && f.Message != "":
		return fmt.Sprintf("%s: %v", f.Message, f.Err)
	case f.Err != nil:
		return f.Err.Error()
	default:
		return f.Message
	}
}

// Unwrap implements errors.Unwrap
func (f *Failure) Unwrap() error {
	return f.Err
}

// StatusCode returns the HTTP status this failure maps to.
// Absent or out-of-range statuses resolve to 500.
func (f *Failure) StatusCode() int {
	if f.Status < 100 || f.Status > 599 {
		return http.StatusInternalServerError
	}
	return f.Status
}

// NewFailure creates a Failure with an explicit status.
func NewFailure(status int, message string) *Failure {
	return &Failure{Status: status, Message: message}
}

// BadRequest creates a 400 Failure.
func BadRequest(message string) *Failure {
	return NewFailure(http.StatusBadRequest, message)
}

// NotFound creates a 404 Failure.
func NotFound(message string) *Failure {
	return NewFailure(http.StatusNotFound, message)
}

// Internal wraps err as a Failure without a status.
func Internal(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Err: err}
}

// Internalf creates a Failure without a status from a format string.
func Internalf(format string, args ...any) *Failure {
	return &Failure{Message: fmt.Sprintf(format, args...)}
}

// AsFailure returns the first Failure in err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
