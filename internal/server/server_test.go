package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storefront/internal/config"
	"storefront/internal/repository"

	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	store, err := repository.Open(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	if cfg == nil {
		cfg = &config.Config{}
		cfg.Server.Env = "development"
	}

	return NewRouter(cfg, zap.NewNop(), store)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("Unexpected health body: %s", rec.Body.String())
	}
}

func TestRootRouteWithoutStaticDir(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Hello World!") {
		t.Errorf("Unexpected root body: %s", rec.Body.String())
	}
}

func TestStaticDirIsServedAtRoot(t *testing.T) {
	staticDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<h1>shop</h1>"), 0o644); err != nil {
		t.Fatalf("Failed to write static file: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Env = "development"
	cfg.Server.StaticDir = staticDir

	router := newTestRouter(t, cfg)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for static file, got %d", rec.Code)
	}
	if rec.Body.String() != "<h1>shop</h1>" {
		t.Errorf("Unexpected static body: %s", rec.Body.String())
	}
}

func TestAPIRoutesAreMounted(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from product listing, got %d", rec.Code)
	}
	if rec.Body.String() != "[]\n" && rec.Body.String() != "[]" {
		t.Errorf("Expected empty product array, got %s", rec.Body.String())
	}
}
