package invalidation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/commercify/storefront-cache/pkg/cache"
)

const testAPIKey = "test-secret"

func newTestHandler(t *testing.T) (*Handler, *cache.Store) {
	t.Helper()

	store := cache.NewStore()
	for _, k := range []string{"product:7", "products:list:1", "categories", "order:ord-1"} {
		store.Set(k, "v", time.Minute)
	}
	coord := NewCoordinator(store, nil, nil, zerolog.Nop())
	return NewHandler(coord, testAPIKey, zerolog.Nop()), store
}

func postInvalidate(t *testing.T, h *Handler, body string) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, EndpointPath, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return rec, resp
}

func TestHandlerInvalidatesProduct(t *testing.T) {
	h, store := newTestHandler(t)

	rec, resp := postInvalidate(t, h, `{"type":"product","id":"7","apiKey":"test-secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !resp.Success || resp.Message != "Cache invalidated successfully" {
		t.Errorf("response = %+v", resp)
	}

	if _, ok := store.Get("product:7"); ok {
		t.Error("product:7 should be gone")
	}
	if _, ok := store.Get("products:list:1"); ok {
		t.Error("product lists should be gone")
	}
	if _, ok := store.Get("categories"); !ok {
		t.Error("categories should survive a product invalidation")
	}
}

func TestHandlerAcceptsNumericID(t *testing.T) {
	h, store := newTestHandler(t)

	rec, _ := postInvalidate(t, h, `{"type":"product","id":7,"apiKey":"test-secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if _, ok := store.Get("product:7"); ok {
		t.Error("numeric id must target the same key as the string form")
	}
}

func TestHandlerClearAll(t *testing.T) {
	h, store := newTestHandler(t)

	rec, _ := postInvalidate(t, h, `{"type":"all","apiKey":"test-secret"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d after clear all, want 0", store.Len())
	}
}

func TestHandlerRejectsBadKey(t *testing.T) {
	h, store := newTestHandler(t)
	before := store.Len()

	rec, resp := postInvalidate(t, h, `{"type":"all","apiKey":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if resp.Error != "Unauthorized" {
		t.Errorf("error = %q, want Unauthorized", resp.Error)
	}
	if store.Len() != before {
		t.Error("rejected request must not touch the cache")
	}
}

func TestHandlerRejectsUnknownType(t *testing.T) {
	h, store := newTestHandler(t)
	before := store.Len()

	rec, resp := postInvalidate(t, h, `{"type":"orders","apiKey":"test-secret"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp.Error != "Invalid cache type" {
		t.Errorf("error = %q", resp.Error)
	}
	if store.Len() != before {
		t.Error("unknown type must not touch the cache")
	}
}

func TestHandlerMalformedBody(t *testing.T) {
	h, store := newTestHandler(t)
	before := store.Len()

	rec, resp := postInvalidate(t, h, `{not json`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if resp.Success {
		t.Error("success should be false")
	}
	if store.Len() != before {
		t.Error("malformed request must not touch the cache")
	}
}

func TestHandlerIdempotent(t *testing.T) {
	h, _ := newTestHandler(t)

	for i := 0; i < 3; i++ {
		rec, _ := postInvalidate(t, h, `{"type":"product","id":"7","apiKey":"test-secret"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("request #%d: status = %d, want 200", i+1, rec.Code)
		}
	}
}

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"string", `"7"`, "7"},
		{"number", `7`, "7"},
		{"null", `null`, ""},
		{"uuid", `"ord-abc-123"`, "ord-abc-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			if err := json.Unmarshal([]byte(tt.in), &id); err != nil {
				t.Fatalf("Unmarshal(%s) failed: %v", tt.in, err)
			}
			if string(id) != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, id, tt.want)
			}
		})
	}
}
