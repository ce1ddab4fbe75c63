package client

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func intPtr(n int) *int { return &n }
func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		body           errorBody
		wantCode       ErrorCode
		wantMessage    string
		wantRetryAfter time.Duration
	}{
		{
			name:        "full body",
			status:      http.StatusForbidden,
			body:        errorBody{Code: intPtr(2002), Message: strPtr("You provided an invalid server key.")},
			wantCode:    CodeInvalidServerKey,
			wantMessage: "You provided an invalid server key.",
		},
		{
			name:           "rate limit with retry hint",
			status:         http.StatusTooManyRequests,
			body:           errorBody{Code: intPtr(4001), Message: strPtr("You are being rate limited!"), RetryAfter: floatPtr(1.5)},
			wantCode:       CodeRateLimited,
			wantMessage:    "You are being rate limited!",
			wantRetryAfter: 1500 * time.Millisecond,
		},
		{
			name:        "empty body",
			status:      http.StatusServiceUnavailable,
			wantCode:    CodeUnknown,
			wantMessage: "HTTP 503: Service Unavailable",
		},
		{
			name:        "code without message",
			status:      http.StatusUnprocessableEntity,
			body:        errorBody{Code: intPtr(3002)},
			wantCode:    CodeServerOffline,
			wantMessage: "HTTP 422: Unprocessable Entity",
		},
		{
			name:        "non-positive retry hint ignored",
			status:      http.StatusTooManyRequests,
			body:        errorBody{Code: intPtr(4001), RetryAfter: floatPtr(0)},
			wantCode:    CodeRateLimited,
			wantMessage: "HTTP 429: Too Many Requests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newAPIError(tt.status, tt.body)
			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
			if err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", err.Code, tt.wantCode)
			}
			if err.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMessage)
			}
			if err.RetryAfter != tt.wantRetryAfter {
				t.Errorf("RetryAfter = %v, want %v", err.RetryAfter, tt.wantRetryAfter)
			}
		})
	}
}

func TestParseAPIError_InvalidBody(t *testing.T) {
	err := parseAPIError(http.StatusBadGateway, []byte("<html>bad gateway</html>"))
	if err.Code != CodeUnknown {
		t.Errorf("Code = %d, want 0", err.Code)
	}
	if err.Message != "HTTP 502: Bad Gateway" {
		t.Errorf("Message = %q, want synthesized message", err.Message)
	}
}

func TestErrorCode_Classification(t *testing.T) {
	tests := []struct {
		code          ErrorCode
		rateLimit     bool
		auth          bool
		serverOffline bool
		retryable     bool
	}{
		{code: CodeUnknown},
		{code: CodeRobloxCommunicationError, retryable: true},
		{code: CodeInternalError, retryable: true},
		{code: CodeNoServerKey, auth: true},
		{code: CodeInvalidServerKeyFormat, auth: true},
		{code: CodeInvalidServerKey, auth: true},
		{code: CodeInvalidGlobalKey, auth: true},
		{code: CodeBannedServerKey, auth: true},
		{code: CodeInvalidCommand},
		{code: CodeServerOffline, serverOffline: true, retryable: true},
		{code: CodeRateLimited, rateLimit: true, retryable: true},
		{code: CodeRestrictedCommand},
		{code: CodeProhibitedMessage},
		{code: CodeRestrictedResource},
		{code: CodeOutdatedModule},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := &APIError{Code: tt.code}
			if got := err.IsRateLimit(); got != tt.rateLimit {
				t.Errorf("IsRateLimit() = %v, want %v", got, tt.rateLimit)
			}
			if got := err.IsAuthError(); got != tt.auth {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.auth)
			}
			if got := err.IsServerOffline(); got != tt.serverOffline {
				t.Errorf("IsServerOffline() = %v, want %v", got, tt.serverOffline)
			}
			if got := err.IsRetryable(); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestErrorCode_String(t *testing.T) {
	if got := CodeRateLimited.String(); got != "rate_limited" {
		t.Errorf("String() = %q, want %q", got, "rate_limited")
	}
	if got := ErrorCode(1234).String(); got != "1234" {
		t.Errorf("String() = %q, want %q", got, "1234")
	}
}

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		expected string
	}{
		{
			name:     "without retry hint",
			err:      &APIError{StatusCode: 403, Code: CodeInvalidServerKey, Message: "invalid key"},
			expected: "PRC API error 2002 (invalid_server_key, status 403): invalid key",
		},
		{
			name:     "with retry hint",
			err:      &APIError{StatusCode: 429, Code: CodeRateLimited, Message: "slow down", RetryAfter: 2 * time.Second},
			expected: "PRC API error 4001 (rate_limited, status 429): slow down (retry after 2s)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPackagePredicates_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("get players: %w", &APIError{Code: CodeRateLimited})

	if !IsRateLimit(wrapped) {
		t.Error("IsRateLimit should see through wrapping")
	}
	if !IsRetryable(wrapped) {
		t.Error("IsRetryable should see through wrapping")
	}
	if IsAuthError(wrapped) || IsServerOffline(wrapped) {
		t.Error("rate limit error misclassified")
	}
	if IsRateLimit(errors.New("plain")) {
		t.Error("plain error should not be a rate limit")
	}

	apiErr, ok := AsAPIError(wrapped)
	if !ok || apiErr.Code != CodeRateLimited {
		t.Errorf("AsAPIError() = %v, %v", apiErr, ok)
	}
}
