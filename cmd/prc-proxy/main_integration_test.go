//go:build integration

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sternrassler/prc-client/internal/testutil"
	"github.com/Sternrassler/prc-client/pkg/client"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestRedis(t *testing.T) string {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}
	t.Cleanup(func() { redisC.Terminate(ctx) })

	host, err := redisC.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := redisC.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	return "redis://" + host + ":" + port.Port()
}

func TestProxyWithRedis(t *testing.T) {
	redisURL := setupTestRedis(t)

	mock := testutil.NewMockPRC()
	defer mock.Close()
	mock.SetResponse(client.PathServer, testutil.NewJSONResponse(testutil.ServerJSON))

	logger := zerolog.Nop()
	cfg := client.DefaultConfig("test-key")
	cfg.BaseURL = mock.URL()
	cfg.RedisURL = redisURL
	cfg.CachePrefix = "proxy"
	cfg.Logger = &logger

	prc, err := client.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create PRC client: %v", err)
	}
	defer prc.Close()

	srv := httptest.NewServer(newMux(prc, logger))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ready")
	if err != nil {
		t.Fatalf("GET /ready error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("ready status = %d, want 200", resp.StatusCode)
	}

	for _, want := range []string{"MISS", "HIT"} {
		resp, err := http.Get(srv.URL + "/server")
		if err != nil {
			t.Fatalf("GET /server error = %v", err)
		}
		resp.Body.Close()
		if got := resp.Header.Get("X-Cache"); got != want {
			t.Errorf("X-Cache = %q, want %q", got, want)
		}
	}

	if mock.GetPathCount(client.PathServer) != 1 {
		t.Errorf("upstream requests = %d, want 1", mock.GetPathCount(client.PathServer))
	}
}
