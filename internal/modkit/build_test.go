package modkit

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"embedbatch/internal/modkit/httpkit"
	phttp "embedbatch/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestBuild_Defaults(t *testing.T) {
	t.Parallel()

	b := Build()
	if b.Name != "" || b.Prefix != "" || b.Ports != nil || len(b.Mw) != 0 || len(b.Register) != 0 {
		t.Fatalf("zero build = %+v", b)
	}
}

func TestBuild_LaterOptionsWin(t *testing.T) {
	t.Parallel()

	type upstream struct{ QueueCap int }
	b := Build(
		WithName("batcher"), WithPrefix("/batcher"),
		WithPorts(upstream{QueueCap: 100}),
		WithName("embed"), WithPrefix("/embed"),
		WithRegister(nil),
	)
	if b.Name != "embed" || b.Prefix != "/embed" {
		t.Fatalf("name/prefix = %q %q", b.Name, b.Prefix)
	}
	if up, ok := b.Ports.(upstream); !ok || up.QueueCap != 100 {
		t.Fatalf("ports = %#v", b.Ports)
	}
	if len(b.Register) != 0 {
		t.Fatalf("nil register should be ignored")
	}
}

func TestMount_MiddlewareOrderAndRegisters(t *testing.T) {
	t.Parallel()

	var trail []string
	step := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trail = append(trail, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	b := Build(
		WithPrefix("/ledger"),
		WithMiddlewares(step("a"), step("b")),
		WithMiddlewares(step("c")),
		WithRegister(func(r httpkit.Router) {
			r.Get("/extra", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "extra") })
		}),
	)
	own := func(r httpkit.Router) {
		r.Get("/recent", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "recent") })
	}

	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, b.Prefix, b.Mw, append([]func(httpkit.Router){own}, b.Register...)...)

	for path, body := range map[string]string{"/ledger/recent": "recent", "/ledger/extra": "extra"} {
		trail = nil
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Body.String() != body {
			t.Fatalf("%s => %d %q", path, rec.Code, rec.Body.String())
		}
		if len(trail) != 3 || trail[0] != "a" || trail[1] != "b" || trail[2] != "c" {
			t.Fatalf("%s middleware trail = %v", path, trail)
		}
	}
}
