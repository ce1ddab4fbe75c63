package client

import "strconv"

// ErrorCode is a PRC API error code carried in the "code" field of an error body.
type ErrorCode int

// PRC API error codes.
const (
	CodeUnknown                  ErrorCode = 0
	CodeRobloxCommunicationError ErrorCode = 1001
	CodeInternalError            ErrorCode = 1002
	CodeNoServerKey              ErrorCode = 2000
	CodeInvalidServerKeyFormat   ErrorCode = 2001
	CodeInvalidServerKey         ErrorCode = 2002
	CodeInvalidGlobalKey         ErrorCode = 2003
	CodeBannedServerKey          ErrorCode = 2004
	CodeInvalidCommand           ErrorCode = 3001
	CodeServerOffline            ErrorCode = 3002
	CodeRateLimited              ErrorCode = 4001
	CodeRestrictedCommand        ErrorCode = 4002
	CodeProhibitedMessage        ErrorCode = 4003
	CodeRestrictedResource       ErrorCode = 9998
	CodeOutdatedModule           ErrorCode = 9999
)

var codeNames = map[ErrorCode]string{
	CodeUnknown:                  "unknown",
	CodeRobloxCommunicationError: "roblox_communication_error",
	CodeInternalError:            "internal_error",
	CodeNoServerKey:              "no_server_key",
	CodeInvalidServerKeyFormat:   "invalid_server_key_format",
	CodeInvalidServerKey:         "invalid_server_key",
	CodeInvalidGlobalKey:         "invalid_global_key",
	CodeBannedServerKey:          "banned_server_key",
	CodeInvalidCommand:           "invalid_command",
	CodeServerOffline:            "server_offline",
	CodeRateLimited:              "rate_limited",
	CodeRestrictedCommand:        "restricted_command",
	CodeProhibitedMessage:        "prohibited_message",
	CodeRestrictedResource:       "restricted_resource",
	CodeOutdatedModule:           "outdated_module",
}

// String returns the snake_case name of the code, or the number for codes the
// client does not know.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return strconv.Itoa(int(c))
}

// IsRateLimit returns true for the rate-limited code.
func (c ErrorCode) IsRateLimit() bool {
	return c == CodeRateLimited
}

// IsAuthError returns true for codes caused by a missing, malformed, invalid
// or banned key.
func (c ErrorCode) IsAuthError() bool {
	switch c {
	case CodeNoServerKey, CodeInvalidServerKeyFormat, CodeInvalidServerKey,
		CodeInvalidGlobalKey, CodeBannedServerKey:
		return true
	default:
		return false
	}
}

// IsServerOffline returns true when the game server has no players online.
func (c ErrorCode) IsServerOffline() bool {
	return c == CodeServerOffline
}

// IsRetryable returns true for codes where repeating the request later may succeed.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case CodeRobloxCommunicationError, CodeInternalError, CodeRateLimited, CodeServerOffline:
		return true
	default:
		return false
	}
}
