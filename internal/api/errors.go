package api

import (
	"errors"
	"fmt"
	"strings"
)

// AuthMissingError is returned before any request is sent when none of the
// operation's token keys resolve.
type AuthMissingError struct {
	Op   string
	Keys []string
}

func (e *AuthMissingError) Error() string {
	return fmt.Sprintf("authentication required to %s: no token found (checked %s)", e.Op, strings.Join(e.Keys, ", "))
}

// TransportError wraps a failure that prevented a response from being read.
type TransportError struct {
	Op     string
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx response. Message is extracted from the body by
// priority: string detail, stringified structured detail, message field,
// raw text, then a synthesized status message.
type APIError struct {
	StatusCode int
	Message    string
	Detail     Detail
	Body       string
	// Structured is true when the error body parsed as JSON.
	Structured bool
	Op         string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// MalformedResponseError is a 2xx response whose body is not valid JSON, or
// JSON that does not fit the expected shape.
type MalformedResponseError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid response format from %s (status %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("invalid response format from %s (status %d)", e.Op, e.StatusCode)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsAuthMissing checks if the error is an AuthMissingError.
func IsAuthMissing(err error) bool {
	var e *AuthMissingError
	return errors.As(err, &e)
}

// IsTransportError checks if the error is a TransportError.
func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// IsMalformedResponse checks if the error is a MalformedResponseError.
func IsMalformedResponse(err error) bool {
	var e *MalformedResponseError
	return errors.As(err, &e)
}

// AsAPIError returns the APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var e *APIError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsUnauthorized reports a 401 response or a missing token.
func IsUnauthorized(err error) bool {
	if IsAuthMissing(err) {
		return true
	}
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode == 401
	}
	return false
}
