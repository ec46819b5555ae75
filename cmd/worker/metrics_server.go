package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// startMetricsServer exposes Prometheus metrics and a simple liveness
// probe for the worker process. The server shuts down gracefully when
// ctx is canceled.
//
// Environment variables:
//   - METRICS_PORT: port to listen on (default: 9090)
func startMetricsServer(ctx context.Context, logger *slog.Logger) *http.Server {
	port := getMetricsPort()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("metrics server started", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", slog.Any("error", err))
		} else {
			logger.Info("metrics server stopped")
		}
	}()

	return server
}

func getMetricsPort() int {
	raw := os.Getenv("METRICS_PORT")
	if raw == "" {
		return 9090
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1024 || port > 65535 {
		return 9090
	}
	return port
}
