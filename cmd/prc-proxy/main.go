// Command prc-proxy exposes a PRC server over HTTP through the caching client.
//
// Configuration is read from the environment:
//
//	PRC_SERVER_KEY  server key (required unless PRC_GLOBAL_KEY is set)
//	PRC_GLOBAL_KEY  global API key
//	PRC_BASE_URL    API root (default https://api.policeroleplay.community/v1)
//	REDIS_URL       redis://host:port; empty selects the memory cache
//	CACHE_PREFIX    key prefix in a shared Redis
//	PORT            listen port (default 8080)
//	LOG_LEVEL       debug, info, warn or error (default info)
//	LOG_PRETTY      human-readable console logs when true
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Sternrassler/prc-client/pkg/client"
	"github.com/Sternrassler/prc-client/pkg/logging"
	"github.com/Sternrassler/prc-client/pkg/metrics"
	"github.com/rs/zerolog"
)

const requestTimeout = 30 * time.Second

// readPolicies maps the proxied GET paths to their cache policy.
var readPolicies = map[string]client.CachePolicy{
	client.PathServer:      client.CacheDefault,
	client.PathPlayers:     client.CacheDefault,
	client.PathQueue:       client.CacheDefault,
	client.PathVehicles:    client.CacheDefault,
	client.PathBans:        client.CacheDefault,
	client.PathStaff:       client.CacheDefault,
	client.PathJoinLogs:    client.CacheOptIn,
	client.PathKillLogs:    client.CacheOptIn,
	client.PathCommandLogs: client.CacheOptIn,
	client.PathModCalls:    client.CacheOptIn,
}

func main() {
	logCfg := logging.FromEnv(getEnv("LOG_LEVEL", "info"), getEnv("LOG_PRETTY", ""))
	logCfg.Component = "prc-proxy"
	logger := logging.Setup(logCfg)

	cfg := loadConfig()
	port := getEnv("PORT", "8080")

	prc, err := client.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create PRC client")
	}
	defer prc.Close()

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           newMux(prc, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info().
			Str("addr", srv.Addr).
			Str("base_url", cfg.BaseURL).
			Bool("redis", cfg.RedisURL != "").
			Msg("Starting PRC proxy server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Shutdown failed")
	}
}

// loadConfig builds the client configuration from the environment.
func loadConfig() client.Config {
	cfg := client.DefaultConfig(os.Getenv("PRC_SERVER_KEY"))
	cfg.GlobalKey = os.Getenv("PRC_GLOBAL_KEY")
	cfg.BaseURL = getEnv("PRC_BASE_URL", client.DefaultBaseURL)
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.CachePrefix = os.Getenv("CACHE_PREFIX")
	return cfg
}

func newMux(prc *client.Client, logger zerolog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler(prc))
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/server", readHandler(prc, logger))
	mux.HandleFunc("/server/", readHandler(prc, logger))
	mux.HandleFunc(client.PathCommand, commandHandler(prc, logger))
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// readyHandler reports 503 while a configured cache backend is unreachable.
func readyHandler(prc *client.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := prc.CacheStatus(); err != nil && !errors.Is(err, client.ErrCacheDisabled) {
			http.Error(w, fmt.Sprintf("cache unavailable: %v", err), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}
}

// readHandler proxies GET reads. Query parameters cache=true|false and
// max_age=<seconds> map to the per-call cache options.
func readHandler(prc *client.Client, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		policy, ok := readPolicies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		opts, err := parseCacheOptions(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		resp, err := prc.Do(ctx, client.Request{
			Method:  http.MethodGet,
			Path:    r.URL.Path,
			Policy:  policy,
			Options: opts,
		})
		if err != nil {
			writeError(w, logger, r.URL.Path, err)
			return
		}
		writeResponse(w, resp)
	}
}

type commandBody struct {
	Command string `json:"command"`
}

func commandHandler(prc *client.Client, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body commandBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		resp, err := prc.ExecuteCommand(ctx, body.Command)
		if errors.Is(err, client.ErrEmptyCommand) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			writeError(w, logger, client.PathCommand, err)
			return
		}
		logger.Info().Str("command", body.Command).Msg("Command executed")
		writeResponse(w, resp)
	}
}

func parseCacheOptions(r *http.Request) ([]client.Option, error) {
	var opts []client.Option
	q := r.URL.Query()
	if v := q.Get("cache"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid cache parameter %q", v)
		}
		opts = append(opts, client.WithCache(enabled))
	}
	if v := q.Get("max_age"); v != "" {
		secs, err := strconv.ParseFloat(v, 64)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid max_age parameter %q", v)
		}
		opts = append(opts, client.WithCacheMaxAge(time.Duration(secs*float64(time.Second))))
	}
	return opts, nil
}

func writeResponse(w http.ResponseWriter, resp *client.Response[json.RawMessage]) {
	if resp.Cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	if rl := resp.RateLimit; rl != nil {
		w.Header().Set("X-RateLimit-Bucket", rl.Bucket)
		if rl.HasRemaining() {
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rl.Remaining))
		}
	}
	if resp.Data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(resp.Data)
}

// errorResponse is the JSON body written for a failed PRC call.
type errorResponse struct {
	Code       int     `json:"code"`
	Message    string  `json:"message"`
	RetryAfter float64 `json:"retry_after,omitempty"`
}

// writeError relays PRC API errors with their original status and writes
// 502 for transport and decoding failures.
func writeError(w http.ResponseWriter, logger zerolog.Logger, endpoint string, err error) {
	status := http.StatusBadGateway
	body := errorResponse{Message: err.Error()}
	if apiErr, ok := client.AsAPIError(err); ok {
		status = apiErr.StatusCode
		body = errorResponse{
			Code:       int(apiErr.Code),
			Message:    apiErr.Message,
			RetryAfter: apiErr.RetryAfter.Seconds(),
		}
	}
	logger.Warn().Err(err).Str("endpoint", endpoint).Int("status_code", status).Msg("PRC request failed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
