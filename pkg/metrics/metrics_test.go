package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Sternrassler/prc-client/internal/testutil"
	"github.com/Sternrassler/prc-client/pkg/client"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

func TestRegistry(t *testing.T) {
	if Registry == nil {
		t.Error("Registry should not be nil")
	}

	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}
}

func TestHandler_ExposesClientMetrics(t *testing.T) {
	mock := testutil.NewMockPRC()
	defer mock.Close()
	mock.SetResponse(client.PathServer, testutil.NewJSONResponse(testutil.ServerJSON))

	logger := zerolog.Nop()
	cfg := client.DefaultConfig("key")
	cfg.BaseURL = mock.URL()
	cfg.Logger = &logger
	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	if _, err := c.GetServer(ctx); err != nil {
		t.Fatalf("GetServer() error = %v", err)
	}
	if _, err := c.GetServer(ctx); err != nil {
		t.Fatalf("GetServer() error = %v", err)
	}

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)

	for _, name := range []string{
		"prc_requests_total",
		"prc_request_duration_seconds",
		"prc_cache_hits_total",
		"prc_rate_limit_remaining",
	} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}
