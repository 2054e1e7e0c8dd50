package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidID      = errors.New("note ID must be positive")
	ErrUnknownAdapter = errors.New("unknown store adapter")
)

// ErrorKind discriminates the failures surfaced by the transport.
type ErrorKind string

const (
	// KindHTTP is a response with a non-2xx status.
	KindHTTP ErrorKind = "http_error"
	// KindNetwork is a request that never produced a response.
	KindNetwork ErrorKind = "network_error"
)

// Error is the single error type raised at the transport boundary.
// Branch on Kind, not on the concrete type of the wrapped cause.
type Error struct {
	Kind       ErrorKind
	Status     int
	StatusText string
	Message    string
	// Details holds the decoded JSON body of a failed response, or its raw
	// text when the body is not JSON.
	Details any
	Err     error
}

// NewHTTPError builds the error for a non-2xx response.
func NewHTTPError(status int, statusText string, details any) *Error {
	return &Error{
		Kind:       KindHTTP,
		Status:     status,
		StatusText: statusText,
		Message:    fmt.Sprintf("HTTP %d: %s", status, statusText),
		Details:    details,
	}
}

// NewNetworkError wraps a failure to send a request or read its response.
func NewNetworkError(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: fmt.Sprintf("network error: %v", err),
		Err:     err,
	}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts the transport error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries a transport error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

// IsStatus reports whether err is an HTTP error with the given status code.
func IsStatus(err error, status int) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindHTTP && e.Status == status
}
