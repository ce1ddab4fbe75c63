package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Common errors returned by the client.
var (
	// ErrMissingCredentials is returned by New when neither a server key nor a
	// global key is configured.
	ErrMissingCredentials = errors.New("a server key or global key is required")

	// ErrEmptyCommand is returned when ExecuteCommand is called without a command.
	ErrEmptyCommand = errors.New("command cannot be empty")

	// ErrInvalidResponse is returned when a successful response carries JSON
	// that cannot be decoded.
	ErrInvalidResponse = errors.New("invalid response from PRC API")

	// ErrContextCancelled is returned when the context is cancelled during a retry wait.
	ErrContextCancelled = errors.New("context cancelled")
)

// APIError is a failed PRC API response.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Code is the PRC error code, or CodeUnknown when the body had none.
	Code ErrorCode

	// Message is the server's message, or "HTTP <status>: <text>".
	Message string

	// RetryAfter is the server's retry hint; 0 when absent.
	RetryAfter time.Duration
}

// errorBody is the JSON shape of a non-2xx response.
type errorBody struct {
	Code       *int     `json:"code"`
	Message    *string  `json:"message"`
	RetryAfter *float64 `json:"retry_after"`
}

// newAPIError builds an APIError from a response status and its parsed body.
func newAPIError(status int, body errorBody) *APIError {
	e := &APIError{
		StatusCode: status,
		Code:       CodeUnknown,
		Message:    fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status)),
	}
	if body.Code != nil {
		e.Code = ErrorCode(*body.Code)
	}
	if body.Message != nil && *body.Message != "" {
		e.Message = *body.Message
	}
	if body.RetryAfter != nil && *body.RetryAfter > 0 {
		e.RetryAfter = secondsToDuration(*body.RetryAfter)
	}
	return e
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("PRC API error %d (%s, status %d): %s (retry after %s)",
			int(e.Code), e.Code, e.StatusCode, e.Message, e.RetryAfter)
	}
	return fmt.Sprintf("PRC API error %d (%s, status %d): %s",
		int(e.Code), e.Code, e.StatusCode, e.Message)
}

// IsRateLimit reports whether the request was rate limited.
func (e *APIError) IsRateLimit() bool { return e.Code.IsRateLimit() }

// IsAuthError reports whether the configured keys were rejected.
func (e *APIError) IsAuthError() bool { return e.Code.IsAuthError() }

// IsServerOffline reports whether the game server is offline.
func (e *APIError) IsServerOffline() bool { return e.Code.IsServerOffline() }

// IsRetryable reports whether repeating the request later may succeed.
func (e *APIError) IsRetryable() bool { return e.Code.IsRetryable() }

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsRateLimit reports whether err is a rate-limited APIError.
func IsRateLimit(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsRateLimit()
}

// IsAuthError reports whether err is an authentication APIError.
func IsAuthError(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsAuthError()
}

// IsServerOffline reports whether err is a server-offline APIError.
func IsServerOffline(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsServerOffline()
}

// IsRetryable reports whether err is a retryable APIError.
func IsRetryable(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsRetryable()
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}
