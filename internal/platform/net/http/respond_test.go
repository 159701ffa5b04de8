package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "embedbatch/internal/platform/errors"
	pnet "embedbatch/internal/platform/net"
	phttp "embedbatch/internal/platform/net/http"
)

func serveResp(resp phttp.Response) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batcher/embed", nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), "req-7", ""))
	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response { return resp })(rec, req)
	return rec
}

func envelope(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusAccepted, []float32{0.5})
	if rec.Code != http.StatusAccepted || rec.Header().Get("Content-Type") != "application/json; charset=utf-8" {
		t.Fatalf("code %d type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestHandle_Success(t *testing.T) {
	rec := serveResp(phttp.OK([][]float32{{0.25, 0.75}}))
	env := envelope(t, rec)
	if rec.Code != http.StatusOK || env.StatusCode != 200 || env.Status != "OK" || env.RequestID != "req-7" || env.Data == nil {
		t.Fatalf("envelope = %d %+v", rec.Code, env)
	}

	rec = serveResp(phttp.Response{Status: http.StatusCreated, Body: "made"})
	if env := envelope(t, rec); rec.Code != http.StatusCreated || env.StatusCode != http.StatusCreated || env.Status != "Created" {
		t.Fatalf("custom status = %d %+v", rec.Code, env)
	}
}

func TestHandle_Bare(t *testing.T) {
	rec := serveResp(phttp.Bare([][]float32{{1, 2}}))
	var got [][]float32
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil || len(got) != 1 || got[0][1] != 2 {
		t.Fatalf("bare body %q: %v", rec.Body.String(), err)
	}

	// errors ignore Bare
	resp := phttp.Error(perr.New(perr.ErrorCodeAborted, "worker aborted"))
	resp.Bare = true
	rec = serveResp(resp)
	if env := envelope(t, rec); rec.Code != http.StatusInternalServerError || env.Code != perr.ErrorCodeAborted {
		t.Fatalf("bare error = %d %+v", rec.Code, env)
	}
}

func TestHandle_Errors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
		code perr.ErrorCode
	}{
		{"queue closed", perr.Unavailablef("queue closed"), http.StatusServiceUnavailable, perr.ErrorCodeUnavailable},
		{"backend down", perr.New(perr.ErrorCodeBadGateway, "dial refused"), http.StatusBadGateway, perr.ErrorCodeBadGateway},
		{"plain", errors.New("boom"), http.StatusInternalServerError, perr.ErrorCodeUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := serveResp(phttp.Error(c.err))
			env := envelope(t, rec)
			if rec.Code != c.want || env.StatusCode != c.want || env.Code != c.code {
				t.Fatalf("got %d %+v, want %d/%v", rec.Code, env, c.want, c.code)
			}
			if env.RequestID != "req-7" || env.Error == "" {
				t.Fatalf("envelope = %+v", env)
			}
		})
	}
}

func TestHandle_HeadersAndNoContent(t *testing.T) {
	resp := phttp.Response{Status: http.StatusNoContent, Header: http.Header{"Retry-After": {"1"}}}
	rec := serveResp(resp)
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 || rec.Header().Get("Retry-After") != "1" {
		t.Fatalf("no content = %d %q %v", rec.Code, rec.Body.String(), rec.Header())
	}
}
