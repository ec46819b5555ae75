package respond

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, 200, map[string]string{"ok": "yes"})

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	if body := decodeBody(t, rec); body["ok"] != "yes" {
		t.Errorf("body = %v", body)
	}
}

func TestJSON_nilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, 204, nil)

	if rec.Code != 204 {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func TestSafeError_validationErrorPassesThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	SafeError(rec, 400, errors.New("limit must be positive"))

	if body := decodeBody(t, rec); body["error"] != "limit must be positive" {
		t.Errorf("body = %v", body)
	}
}

func TestSafeError_internalDetailHidden(t *testing.T) {
	rec := httptest.NewRecorder()
	SafeError(rec, 500, errors.New("connect postgres://app:s3cret@db:5432/x: refused"))

	if body := decodeBody(t, rec); body["error"] != "internal server error" {
		t.Errorf("body = %v", body)
	}
}

func TestSafeError_5xxNeverEchoes(t *testing.T) {
	rec := httptest.NewRecorder()
	// message contains a "safe" substring but the status is 5xx
	SafeError(rec, 502, errors.New("upstream invalid state"))

	if body := decodeBody(t, rec); body["error"] != "internal server error" {
		t.Errorf("body = %v", body)
	}
}

func TestSafeError_nilIsNoop(t *testing.T) {
	rec := httptest.NewRecorder()
	SafeError(rec, 500, nil)

	if rec.Body.Len() != 0 {
		t.Errorf("expected no body, got %q", rec.Body.String())
	}
}
