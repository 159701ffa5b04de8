package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	perr "embedbatch/internal/platform/errors"
)

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(Options{})
	if c.opts.URL != defaultURL || c.opts.UserAgent != defaultUA || c.opts.MaxBodyBytes != defaultMaxBody {
		t.Fatalf("defaults not applied: %+v", c.opts)
	}
}

func TestEmbed_PostsInputsAndDecodes(t *testing.T) {
	var got embedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected request %s %s", r.Method, r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`[[0.1,0.2],[0.3,0.4]]`))
	}))
	defer srv.Close()

	out, err := NewClient(Options{URL: srv.URL}).Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(got.Inputs) != 2 || got.Inputs[0] != "a" || got.Inputs[1] != "b" {
		t.Fatalf("backend saw %+v", got)
	}
	if len(out) != 2 || out[1][1] != float32(0.4) {
		t.Fatalf("out = %v", out)
	}
}

func TestEmbed_FailureMapping(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		maxBody int64
		code    perr.ErrorCode
		msg     string
	}{
		{"malformed json", 200, "not json", 0, perr.ErrorCodeBadUpstream, "failed to parse backend JSON"},
		{"wrong shape", 200, `{"data":[]}`, 0, perr.ErrorCodeBadUpstream, "failed to parse backend JSON"},
		{"null body", 200, `null`, 0, perr.ErrorCodeBadUpstream, "got null"},
		{"null row", 200, `[[1.0],null]`, 0, perr.ErrorCodeBadUpstream, "embedding 1 is null"},
		{"non 2xx", 503, "overloaded", 0, perr.ErrorCodeBadGateway, "status 503"},
		{"oversized", 200, `[[1,2,3,4,5,6,7,8]]`, 4, perr.ErrorCodeBadUpstream, "exceeds 4 bytes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient(Options{URL: srv.URL, MaxBodyBytes: tc.maxBody}).Embed(context.Background(), []string{"x"})
			if !perr.IsCode(err, tc.code) {
				t.Fatalf("err = %v, want code %v", err, tc.code)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("err = %q, want it to mention %q", err, tc.msg)
			}
		})
	}
}

func TestEmbed_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(Options{URL: url}).Embed(context.Background(), []string{"x"})
	if !perr.IsCode(err, perr.ErrorCodeBadGateway) || !strings.Contains(err.Error(), "backend request failed") {
		t.Fatalf("err = %v, want backend request failed", err)
	}
}

func TestEmbed_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[[1]]`))
	}))
	defer srv.Close()

	_, err := NewClient(Options{URL: srv.URL, Timeout: 20 * time.Millisecond}).Embed(context.Background(), []string{"x"})
	if !perr.IsCode(err, perr.ErrorCodeBadGateway) {
		t.Fatalf("err = %v, want transport failure", err)
	}
}
