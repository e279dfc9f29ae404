package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/idlikadai/backend/pkg/router"
)

func noop(w http.ResponseWriter, r *http.Request) {}

func TestRoutesTable(t *testing.T) {
	r := router.New()
	r.Get("/menu", "menu.list", noop)
	r.Post("/orders", "orders.create", noop)
	r.Put("/orders/{order_id}/status", "", noop)

	infos := r.Routes()
	if len(infos) != 3 {
		t.Fatalf("Routes() returned %d entries, want 3", len(infos))
	}

	if infos[0].Method != http.MethodGet || infos[0].Path != "/menu" || infos[0].Name != "menu.list" {
		t.Errorf("unexpected first entry: %+v", infos[0])
	}
	if infos[2].Name != "" {
		t.Errorf("unnamed route got name %q", infos[2].Name)
	}
}

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	r.Put("/orders/{order_id}/status", "orders.status", noop)

	url, err := r.URL("orders.status", map[string]string{"order_id": "abc123"})
	if err != nil {
		t.Fatalf("URL failed: %v", err)
	}
	if url != "/orders/abc123/status" {
		t.Errorf("url = %q", url)
	}

	if _, err := r.URL("orders.status", nil); err == nil {
		t.Error("expected error for missing params")
	}
	if _, err := r.URL("nope", nil); err == nil {
		t.Error("expected error for unknown route name")
	}
}

func TestGroupPrefixing(t *testing.T) {
	r := router.New()
	g := r.Group("/email")
	g.Get("/health", "email.health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/email/health", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	if path, ok := r.Path("email.health"); !ok || path != "/email/health" {
		t.Errorf("Path = %q, %v", path, ok)
	}
}

func TestNotFoundHandler(t *testing.T) {
	r := router.New()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"Route not found"}`)) //nolint:errcheck
	})

	req := httptest.NewRequest(http.MethodGet, "/nothing-here", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
