// Package http provides HTTP handlers and middleware for the stock-browsing
// API: stock listing and search endpoints, health probes, metrics
// collection, and the ambient middleware stack.
package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"stockitect/internal/cache"
)

// Connectivity mirrors the repository's connectivity collaborator; the
// health endpoint reports the same signal the request path consults.
type Connectivity interface {
	IsOnline(ctx context.Context) bool
}

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// HealthHandler reports the health of the cache store and the upstream
// network path. Returns 200 when healthy; a failed cache store probe
// yields 503. An offline provider is reported as degraded, not failed:
// cached pages still serve.
type HealthHandler struct {
	Store        cache.Store
	Connectivity Connectivity
	Version      string
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	allHealthy := true

	if h.Store != nil {
		storeCheck := h.checkStore(ctx)
		checks["cache_store"] = storeCheck
		if storeCheck.Status == "unhealthy" {
			allHealthy = false
		}
	} else {
		checks["cache_store"] = CheckStatus{
			Status:  "unhealthy",
			Message: "not configured",
		}
		allHealthy = false
	}

	if h.Connectivity != nil {
		if h.Connectivity.IsOnline(ctx) {
			checks["upstream"] = CheckStatus{Status: "healthy"}
		} else {
			checks["upstream"] = CheckStatus{
				Status:  "degraded",
				Message: "provider unreachable, serving from cache only",
			}
		}
	}

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("health: failed to encode response: %v", err)
	}
}

// checkStore probes the cache store with a read of a key that is allowed
// not to exist; only a transport-level failure marks the store unhealthy.
func (h *HealthHandler) checkStore(ctx context.Context) CheckStatus {
	if _, _, err := h.Store.Get(ctx, cache.Prefix+"health_probe"); err != nil {
		return CheckStatus{
			Status:  "unhealthy",
			Message: err.Error(),
		}
	}
	return CheckStatus{Status: "healthy"}
}

// ReadyHandler handles readiness probe requests: ready once the cache
// store answers.
type ReadyHandler struct {
	Store cache.Store
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.Store == nil {
		http.Error(w, "cache store not configured", http.StatusServiceUnavailable)
		return
	}

	if _, _, err := h.Store.Get(ctx, cache.Prefix+"health_probe"); err != nil {
		http.Error(w, "cache store not ready: "+err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ready")); err != nil {
		log.Printf("ready: failed to write response: %v", err)
	}
}

// LiveHandler handles liveness probe requests and always answers 200
// while the process can respond.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		log.Printf("alive: failed to write response: %v", err)
	}
}
