package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTimeout_FastHandlerCompletes(t *testing.T) {
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"stocks":[]}`))
	}))

	req := httptest.NewRequest("GET", "/stocks", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if !strings.Contains(rr.Body.String(), "stocks") {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestTimeout_SlowHandlerGets504(t *testing.T) {
	handler := Timeout(20*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	}))

	req := httptest.NewRequest("GET", "/stocks", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusGatewayTimeout)
	}
	if !strings.Contains(rr.Body.String(), "timeout") {
		t.Errorf("body = %q", rr.Body.String())
	}
}

func TestTimeout_DeadlinePropagatesToHandler(t *testing.T) {
	var deadlineSet bool
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, deadlineSet = r.Context().Deadline()
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/stocks", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !deadlineSet {
		t.Error("handler context has no deadline")
	}
}

func TestTimeout_HandlerSeesCancellation(t *testing.T) {
	cancelled := make(chan struct{})
	handler := Timeout(10*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		close(cancelled)
	}))

	req := httptest.NewRequest("GET", "/stocks", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("handler context was never cancelled")
	}
}

func TestTimeout_LateWriteIsSuppressed(t *testing.T) {
	wrote := make(chan error, 1)
	handler := Timeout(10*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		time.Sleep(20 * time.Millisecond)
		_, err := w.Write([]byte("too late"))
		wrote <- err
	}))

	req := httptest.NewRequest("GET", "/stocks", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	select {
	case err := <-wrote:
		if err != http.ErrHandlerTimeout {
			t.Errorf("late write error = %v, want %v", err, http.ErrHandlerTimeout)
		}
	case <-time.After(time.Second):
		t.Fatal("handler never attempted its late write")
	}
	if rr.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusGatewayTimeout)
	}
	if strings.Contains(rr.Body.String(), "too late") {
		t.Error("late body write reached the client")
	}
}

func TestTimeout_PreservesParentContext(t *testing.T) {
	type key struct{}
	var got any
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Context().Value(key{})
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/stocks", nil)
	req = req.WithContext(context.WithValue(req.Context(), key{}, "kept"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got != "kept" {
		t.Errorf("parent context value = %v, want %q", got, "kept")
	}
}

func TestTimeout_ImplicitStatusOnBareWrite(t *testing.T) {
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest("GET", "/stocks", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.String() != "ok" {
		t.Errorf("body = %q", rr.Body.String())
	}
}
