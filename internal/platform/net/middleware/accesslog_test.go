package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"embedbatch/internal/platform/logger"
	"embedbatch/internal/platform/net/middleware"
	kit "embedbatch/internal/platform/testkit"
)

type lockedBuf struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (l *lockedBuf) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.b.Write(p)
}

// take returns and clears what was logged so far
func (l *lockedBuf) take() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.b.String()
	l.b.Reset()
	return s
}

var logs lockedBuf

func TestMain(m *testing.M) {
	logger.Init(logger.Options{Level: "debug", Format: "json", Writer: &logs})
	os.Exit(m.Run())
}

func lastLine(t *testing.T) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(logs.take()), "\n")
	var out map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &out); err != nil {
		t.Fatalf("decode log %q: %v", lines, err)
	}
	return out
}

func TestAccessLog(t *testing.T) {
	cases := []struct {
		name   string
		slow   time.Duration
		h      http.HandlerFunc
		status float64
		bytes  float64
		level  string
	}{
		{
			name: "implicit 200",
			h: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "hi")
				_, _ = io.WriteString(w, "there")
			},
			status: 200, bytes: 7, level: "info",
		},
		{
			name:   "explicit status",
			h:      func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) },
			status: 503, level: "info",
		},
		{
			name:   "slow",
			slow:   time.Nanosecond,
			h:      func(w http.ResponseWriter, _ *http.Request) { time.Sleep(time.Millisecond) },
			status: 200, level: "warn",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			logs.take()
			rec := httptest.NewRecorder()
			middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: c.slow})(c.h).
				ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/embed", nil))

			line := lastLine(t)
			if line["status"] != c.status || line["bytes"] != c.bytes || line["level"] != c.level {
				t.Fatalf("log = %v", line)
			}
			if line["path"] != "/api/v1/embed" || line["message"] != "request done" {
				t.Fatalf("log = %v", line)
			}
		})
	}
}

func TestRecoverJSON(t *testing.T) {
	logs.take()
	h := middleware.RequestID()(middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("aggregator gone")
	})))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/embed", nil)
	req.Header.Set("X-Request-ID", "req-9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError || rec.Header().Get("X-Request-ID") != "req-9" {
		t.Fatalf("status %d headers %v", rec.Code, rec.Header())
	}
	kit.MustContain(t, rec.Body.String(), `"request_id":"req-9"`)
	kit.MustContain(t, logs.take(), "aggregator gone")

	kit.MustPanic(t, func() {
		middleware.RecoverJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic(http.ErrAbortHandler)
		})).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
