package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"
)

// startHealthServer boots a server on its own port and waits for it to
// accept connections.
func startHealthServer(t *testing.T, port int) (*HealthServer, context.CancelFunc) {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	addr := fmt.Sprintf("localhost:%d", port)
	server := NewHealthServer(addr, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = server.Start(ctx) }()
	t.Cleanup(cancel)

	url := fmt.Sprintf("http://%s/health", addr)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			return server, cancel
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("health server on %s never came up", addr)
	return nil, nil
}

func probe(t *testing.T, port int, path string) (int, healthResponse) {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d%s", port, path))
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return resp.StatusCode, body
}

func TestHealthServer_Liveness(t *testing.T) {
	const port = 19181
	startHealthServer(t, port)

	code, body := probe(t, port, "/health")
	if code != http.StatusOK {
		t.Errorf("liveness status = %d, want %d", code, http.StatusOK)
	}
	if body.Status != "ok" {
		t.Errorf("liveness body = %q, want %q", body.Status, "ok")
	}
}

func TestHealthServer_ReadinessTransition(t *testing.T) {
	const port = 19182
	server, _ := startHealthServer(t, port)

	// begins not-ready: the cron schedule is not registered yet
	code, body := probe(t, port, "/health/ready")
	if code != http.StatusServiceUnavailable {
		t.Errorf("initial readiness = %d, want %d", code, http.StatusServiceUnavailable)
	}
	if body.Status != "not ready" {
		t.Errorf("initial body = %q", body.Status)
	}

	server.SetReady(true)
	code, body = probe(t, port, "/health/ready")
	if code != http.StatusOK {
		t.Errorf("readiness after SetReady = %d, want %d", code, http.StatusOK)
	}
	if body.Status != "ok" {
		t.Errorf("ready body = %q", body.Status)
	}

	server.SetReady(false)
	code, _ = probe(t, port, "/health/ready")
	if code != http.StatusServiceUnavailable {
		t.Errorf("readiness after un-ready = %d, want %d", code, http.StatusServiceUnavailable)
	}
}

func TestHealthServer_GracefulShutdown(t *testing.T) {
	const port = 19183
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	server := NewHealthServer(fmt.Sprintf("localhost:%d", port), logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Start(ctx) }()

	for i := 0; i < 50; i++ {
		resp, err := http.Get(fmt.Sprintf("http://localhost:%d/health", port))
		if err == nil {
			_ = resp.Body.Close()
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != http.ErrServerClosed {
			t.Errorf("Start returned %v, want %v", err, http.ErrServerClosed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down after context cancel")
	}
}
