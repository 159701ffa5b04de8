package http_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"embedbatch/internal/platform/config"
	phttp "embedbatch/internal/platform/net/http"
)

func tag(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Layer", name)
			next.ServeHTTP(w, r)
		})
	}
}

func text(s string) phttp.Handler {
	return func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, s) }
}

func TestRouter_MiddlewareScopes(t *testing.T) {
	t.Setenv("CORE_API_ADDR", "127.0.0.1:0")
	srv := phttp.NewServer(config.New().Prefix("CORE_API_"))
	if srv.Addr() != "127.0.0.1:0" {
		t.Fatalf("addr = %q", srv.Addr())
	}

	r := srv.Router()
	r.Use(tag("root"))
	r.Get("/healthz", text("ok"))
	r.Route("/v1", func(v1 phttp.Router) {
		v1.Use(tag("v1"))
		v1.Group(func(g phttp.Router) {
			g.Use(tag("auth"))
			g.Post("/embed", text("embedded"))
		})
		v1.Get("/stats", text("stats"))
		v1.Handle("/metrics", http.HandlerFunc(text("metrics")))
	})

	cases := []struct {
		method, path, body string
		layers             []string
	}{
		{http.MethodGet, "/healthz", "ok", []string{"root"}},
		{http.MethodPost, "/v1/embed", "embedded", []string{"root", "v1", "auth"}},
		{http.MethodGet, "/v1/stats", "stats", []string{"root", "v1"}},
		{http.MethodGet, "/v1/metrics", "metrics", []string{"root", "v1"}},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(c.method, c.path, nil))
		if rec.Code != http.StatusOK || rec.Body.String() != c.body {
			t.Fatalf("%s %s => %d %q", c.method, c.path, rec.Code, rec.Body.String())
		}
		got := rec.Header().Values("X-Layer")
		if len(got) != len(c.layers) {
			t.Fatalf("%s layers = %v, want %v", c.path, got, c.layers)
		}
		for i := range got {
			if got[i] != c.layers[i] {
				t.Fatalf("%s layers = %v, want %v", c.path, got, c.layers)
			}
		}
	}

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/embed", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /v1/embed => %d", rec.Code)
	}
}

func TestServer_RunAndShutdown(t *testing.T) {
	t.Setenv("ADDR", "127.0.0.1:0")
	srv := phttp.NewServer(config.New())

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background()) }()
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run after shutdown = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not return")
	}
}

func TestServer_RunReportsListenError(t *testing.T) {
	t.Setenv("ADDR", "127.0.0.1:abc")
	if err := phttp.NewServer(config.New()).Run(context.Background()); err == nil {
		t.Fatalf("expected listen error")
	}
}
