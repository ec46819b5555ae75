package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWrap_DefaultsTo200(t *testing.T) {
	w := Wrap(httptest.NewRecorder())

	if w.StatusCode() != http.StatusOK {
		t.Errorf("StatusCode() = %d, want %d", w.StatusCode(), http.StatusOK)
	}
	if w.BytesWritten() != 0 {
		t.Errorf("BytesWritten() = %d, want 0", w.BytesWritten())
	}
}

func TestWriteHeader_FirstCallWins(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	w.WriteHeader(http.StatusServiceUnavailable)
	w.WriteHeader(http.StatusOK)

	if w.StatusCode() != http.StatusServiceUnavailable {
		t.Errorf("StatusCode() = %d, want %d", w.StatusCode(), http.StatusServiceUnavailable)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("recorded code = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestWrite_AccumulatesSize(t *testing.T) {
	w := Wrap(httptest.NewRecorder())

	if _, err := w.Write([]byte(`{"stocks":[`)); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(`]}`)); err != nil {
		t.Fatal(err)
	}

	if w.BytesWritten() != 13 {
		t.Errorf("BytesWritten() = %d, want 13", w.BytesWritten())
	}
	if w.StatusCode() != http.StatusOK {
		t.Errorf("StatusCode() = %d, want %d", w.StatusCode(), http.StatusOK)
	}
}

func TestWrite_AfterExplicitStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	w.WriteHeader(http.StatusBadGateway)
	if _, err := w.Write([]byte("upstream error")); err != nil {
		t.Fatal(err)
	}

	if w.StatusCode() != http.StatusBadGateway {
		t.Errorf("StatusCode() = %d, want %d", w.StatusCode(), http.StatusBadGateway)
	}
	if rec.Body.String() != "upstream error" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	w := Wrap(rec)

	if w.Unwrap() != rec {
		t.Error("Unwrap() did not return the underlying writer")
	}
}
