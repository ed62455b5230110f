package transport

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"storefront/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (chi.Router, repository.Store) {
	t.Helper()

	store, err := repository.Open(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	logger := zap.NewNop()
	router := chi.NewRouter()
	NewProductHandler(store, logger).RegisterRoutes(router)
	NewCartHandler(store, logger).RegisterRoutes(router)
	NewOrderHandler(store, logger).RegisterRoutes(router)

	return router, store
}

func doRequest(t *testing.T, router chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
}

// hasValidationErrors reports whether the error envelope carries field-level
// validation details.
func hasValidationErrors(t *testing.T, rec *httptest.ResponseRecorder) bool {
	t.Helper()

	var resp struct {
		Error struct {
			Details map[string]interface{} `json:"details"`
		} `json:"error"`
	}
	decodeBody(t, rec, &resp)
	_, ok := resp.Error.Details["validation_errors"]
	return ok
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()

	if rec.Code != want {
		t.Fatalf("Expected status %d, got %d (body: %s)", want, rec.Code, rec.Body.String())
	}
}
