package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Sternrassler/prc-client/internal/testutil"
	"github.com/Sternrassler/prc-client/pkg/client"
	"github.com/rs/zerolog"
)

func setupProxy(t *testing.T, modify ...func(*client.Config)) (*testutil.MockPRC, *httptest.Server) {
	t.Helper()

	mock := testutil.NewMockPRC()
	t.Cleanup(mock.Close)

	logger := zerolog.Nop()
	cfg := client.DefaultConfig("test-key")
	cfg.BaseURL = mock.URL()
	cfg.Logger = &logger
	for _, m := range modify {
		m(&cfg)
	}

	prc, err := client.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create PRC client: %v", err)
	}
	t.Cleanup(func() { prc.Close() })

	srv := httptest.NewServer(newMux(prc, logger))
	t.Cleanup(srv.Close)
	return mock, srv
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("memory_cache", func(t *testing.T) {
		_, srv := setupProxy(t)

		resp, err := http.Get(srv.URL + "/ready")
		if err != nil {
			t.Fatalf("GET /ready error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected status 200, got %d", resp.StatusCode)
		}
	})

	t.Run("not_ready_redis_down", func(t *testing.T) {
		_, srv := setupProxy(t, func(cfg *client.Config) { cfg.RedisURL = "redis://127.0.0.1:1" })

		resp, err := http.Get(srv.URL + "/ready")
		if err != nil {
			t.Fatalf("GET /ready error = %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", resp.StatusCode)
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	mock, srv := setupProxy(t)
	mock.SetResponse(client.PathServer, testutil.NewJSONResponse(testutil.ServerJSON))

	if resp, err := http.Get(srv.URL + "/server"); err == nil {
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	bodyStr := string(body)
	if !strings.Contains(bodyStr, "# HELP") || !strings.Contains(bodyStr, "# TYPE") {
		t.Error("Expected Prometheus format metrics output")
	}
	if !strings.Contains(bodyStr, "prc_requests_total") {
		t.Error("Expected metrics output to contain prc_requests_total")
	}
}

func TestReadHandler(t *testing.T) {
	mock, srv := setupProxy(t)
	mock.SetResponse(client.PathPlayers, testutil.NewJSONResponse(testutil.PlayersJSON))

	for i, wantCache := range []string{"MISS", "HIT"} {
		resp, err := http.Get(srv.URL + "/server/players")
		if err != nil {
			t.Fatalf("GET error = %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, resp.StatusCode)
		}
		if got := resp.Header.Get("X-Cache"); got != wantCache {
			t.Errorf("request %d: X-Cache = %q, want %q", i, got, wantCache)
		}

		var players []client.Player
		if err := json.Unmarshal(body, &players); err != nil {
			t.Fatalf("body not a player list: %v", err)
		}
		if len(players) != 2 {
			t.Errorf("players = %d, want 2", len(players))
		}
	}

	if mock.GetPathCount(client.PathPlayers) != 1 {
		t.Errorf("upstream calls = %d, want 1", mock.GetPathCount(client.PathPlayers))
	}
}

func TestReadHandler_CacheParameters(t *testing.T) {
	mock, srv := setupProxy(t)
	joins, _, _, _ := testutil.RecentLogs(0)
	mock.SetResponse(client.PathJoinLogs, testutil.NewJSONResponse(joins))

	get := func(query string) *http.Response {
		t.Helper()
		resp, err := http.Get(srv.URL + "/server/joinlogs" + query)
		if err != nil {
			t.Fatalf("GET error = %v", err)
		}
		resp.Body.Close()
		return resp
	}

	get("?cache=true")
	get("?cache=true")
	if got := mock.GetPathCount(client.PathJoinLogs); got != 2 {
		t.Errorf("upstream calls = %d, want 2", got)
	}

	get("?cache=true&max_age=300")
	if resp := get("?cache=true&max_age=300"); resp.Header.Get("X-Cache") != "HIT" {
		t.Errorf("X-Cache = %q, want HIT", resp.Header.Get("X-Cache"))
	}
	if got := mock.GetPathCount(client.PathJoinLogs); got != 3 {
		t.Errorf("upstream calls = %d, want 3", got)
	}

	if resp := get("?cache=maybe"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if resp := get("?max_age=-1"); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestReadHandler_Routing(t *testing.T) {
	_, srv := setupProxy(t)

	resp, err := http.Get(srv.URL + "/server/unknown")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	resp, err = http.Post(srv.URL+"/server/players", "application/json", nil)
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestReadHandler_APIError(t *testing.T) {
	mock, srv := setupProxy(t)
	mock.SetResponse(client.PathServer, testutil.NewServerOfflineResponse())

	resp, err := http.Get(srv.URL + "/server")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", resp.StatusCode)
	}
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Code != 3002 {
		t.Errorf("code = %d, want 3002", body.Code)
	}
}

func TestCommandHandler(t *testing.T) {
	mock, srv := setupProxy(t)
	mock.SetResponse(client.PathCommand, testutil.NewEmptyResponse())

	resp, err := http.Post(srv.URL+"/server/command", "application/json", strings.NewReader(`{"command": ":m hello"}`))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}

	last, _ := mock.LastRequest()
	if !strings.Contains(string(last.Body), `":m hello"`) {
		t.Errorf("upstream body = %s", last.Body)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty_command", `{"command": ""}`, http.StatusBadRequest},
		{"invalid_json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/server/command", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST error = %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}

	resp, err = http.Get(srv.URL + "/server/command")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("PRC_SERVER_KEY", "server-key")
	t.Setenv("PRC_GLOBAL_KEY", "global-key")
	t.Setenv("PRC_BASE_URL", "http://localhost:9999/v1")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CACHE_PREFIX", "lcrp")

	cfg := loadConfig()

	if cfg.ServerKey != "server-key" || cfg.GlobalKey != "global-key" {
		t.Errorf("keys = %q/%q", cfg.ServerKey, cfg.GlobalKey)
	}
	if cfg.BaseURL != "http://localhost:9999/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("RedisURL = %q", cfg.RedisURL)
	}
	if cfg.CachePrefix != "lcrp" {
		t.Errorf("CachePrefix = %q", cfg.CachePrefix)
	}
	if !cfg.CacheEnabled {
		t.Error("CacheEnabled should be true")
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("PRC_PROXY_TEST_VALUE", "set")

	if got := getEnv("PRC_PROXY_TEST_VALUE", "default"); got != "set" {
		t.Errorf("getEnv() = %q, want %q", got, "set")
	}
	if got := getEnv("PRC_PROXY_TEST_UNSET", "default"); got != "default" {
		t.Errorf("getEnv() = %q, want %q", got, "default")
	}
}
