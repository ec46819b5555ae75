package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// HealthServer provides liveness and readiness probes for the warm worker:
//   - /health: liveness, always 200 while the process responds
//   - /health/ready: readiness, 200 once the worker is initialized
//
// The server shuts down gracefully when the context is cancelled.
type HealthServer struct {
	addr    string
	logger  *slog.Logger
	isReady *atomic.Bool
	server  *http.Server
}

// healthResponse is the JSON response format for health check endpoints.
type healthResponse struct {
	Status string `json:"status"`
}

// NewHealthServer creates a health server listening on addr. Call Start
// to serve; the server begins not-ready.
func NewHealthServer(addr string, logger *slog.Logger) *HealthServer {
	isReady := &atomic.Bool{}
	isReady.Store(false)

	return &HealthServer{
		addr:    addr,
		logger:  logger,
		isReady: isReady,
	}
}

// Start serves the probes until the context is cancelled. It blocks;
// returns http.ErrServerClosed on graceful shutdown.
func (h *HealthServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleLiveness)
	mux.HandleFunc("/health/ready", h.handleReadiness)

	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		if err := h.server.ListenAndServe(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		h.logger.Info("health server shutting down")
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		h.logger.Info("health server stopped")
		return http.ErrServerClosed

	case err := <-errChan:
		if err == http.ErrServerClosed {
			return err
		}
		h.logger.Error("health server failed", slog.Any("error", err))
		return err
	}
}

// SetReady flips the readiness state reported by /health/ready.
func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok"}); err != nil {
		h.logger.Error("failed to encode liveness response", slog.Any("error", err))
	}
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.isReady.Load() {
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(healthResponse{Status: "ok"}); err != nil {
			h.logger.Error("failed to encode readiness response", slog.Any("error", err))
		}
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		if err := json.NewEncoder(w).Encode(healthResponse{Status: "not ready"}); err != nil {
			h.logger.Error("failed to encode not ready response", slog.Any("error", err))
		}
	}
}
