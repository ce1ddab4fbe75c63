// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer

	// Component is added to every entry when set.
	Component string
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// FromEnv builds a Config from LOG_LEVEL and LOG_PRETTY style values.
// Pretty accepts "1", "true" and "yes".
func FromEnv(level, pretty string) Config {
	cfg := DefaultConfig()
	if level != "" {
		cfg.Level = LogLevel(level)
	}
	switch strings.ToLower(strings.TrimSpace(pretty)) {
	case "1", "true", "yes":
		cfg.Pretty = true
	}
	return cfg
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	// Set global log level
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	// Configure output
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	var output io.Writer = out
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: out}
	}

	// Create logger with timestamp
	ctx := zerolog.New(output).With().Timestamp()
	if cfg.Component != "" {
		ctx = ctx.Str("component", cfg.Component)
	}
	logger := ctx.Logger()

	// Set as global logger
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Cache operations (hit/miss, key, TTL)
//   - Request flow (method, attempt)
//
// Info: Normal operation events
//   - Server startup/shutdown
//   - Proxy configuration summary
//
// Warn: Warning conditions that don't prevent operation
//   - Rate limit retries and exhausted buckets
//   - Cache backend unavailable (cache inert)
//   - Cache errors (request continues uncached)
//   - PRC API error responses
//
// Error: Error conditions requiring attention
//   - Network failures
//   - Configuration errors
//
// Context Fields:
//   - component: prc-client, prc-cache, prc-helpers, prc-proxy
//   - endpoint: PRC endpoint path
//   - status_code: HTTP status code
//   - code: PRC error code
//   - attempt: attempt number within the retry loop
//   - retry_after: server retry hint
//   - bucket: rate limit bucket
//   - cache_hit: Boolean indicating cache hit
//   - ttl: Cache entry max age
