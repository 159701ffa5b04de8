package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	perr "embedbatch/internal/platform/errors"
	pnet "embedbatch/internal/platform/net"
	"embedbatch/internal/platform/net/middleware"
)

type tokenPort struct {
	client string
	err    error
}

func (p tokenPort) Parse(*http.Request) (string, error) { return p.client, p.err }

func TestAuth(t *testing.T) {
	cases := []struct {
		name       string
		port       middleware.AuthPort
		wantStatus int
		wantClient string
	}{
		{name: "no port", wantStatus: http.StatusOK},
		{name: "known token", port: tokenPort{client: "indexer"}, wantStatus: http.StatusOK, wantClient: "indexer"},
		{name: "rejected", port: tokenPort{err: perr.New(perr.ErrorCodeUnauthorized, "bad token")}, wantStatus: http.StatusUnauthorized},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var (
				reached bool
				client  string
				body    any
			)
			write := func(w http.ResponseWriter, status int, b any) {
				body = b
				w.WriteHeader(status)
			}
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached, client = true, pnet.ClientID(r.Context())
			})

			rec := httptest.NewRecorder()
			middleware.Auth(c.port, write)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/embed", nil))

			if rec.Code != c.wantStatus || client != c.wantClient {
				t.Fatalf("status %d client %q", rec.Code, client)
			}
			if reached == (c.wantStatus != http.StatusOK) {
				t.Fatalf("reached = %v", reached)
			}
			if w, ok := body.(pnet.Wire); c.wantStatus != http.StatusOK && (!ok || w.Code != perr.ErrorCodeUnauthorized) {
				t.Fatalf("body = %#v", body)
			}
		})
	}
}
