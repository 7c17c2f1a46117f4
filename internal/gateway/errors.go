package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// Error is the single failure type returned by Client.
//
// StatusCode is zero for transport failures (connection refused, timeout,
// unreadable body) and for local encode/decode failures. For non-2xx
// responses it carries the HTTP status and Message includes the raw body.
type Error struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func transportError(fn string, err error) *Error {
	return &Error{Message: fmt.Sprintf("%s: HTTP request failed: %v", fn, err), Err: err}
}

func remoteError(fn string, status int, body []byte) *Error {
	return &Error{
		StatusCode: status,
		Message:    fmt.Sprintf("%s: gateway returned %d: %s", fn, status, strings.TrimSpace(string(body))),
	}
}

func codecError(fn, op string, err error) *Error {
	return &Error{Message: fmt.Sprintf("%s: %s: %v", fn, op, err), Err: err}
}

// IsTransport reports whether err is a gateway error without an HTTP status.
// Uses errors.As to handle wrapped errors.
func IsTransport(err error) bool {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.StatusCode == 0
	}
	return false
}

// StatusCode returns the HTTP status carried by a gateway error, or 0.
func StatusCode(err error) int {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.StatusCode
	}
	return 0
}
