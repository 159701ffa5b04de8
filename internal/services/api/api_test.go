package api

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"embedbatch/internal/modkit/module"
	"embedbatch/internal/platform/config"
	"embedbatch/internal/platform/metrics"
	phttp "embedbatch/internal/platform/net/http"
	kit "embedbatch/internal/platform/testkit"
	bdom "embedbatch/internal/services/batcher/domain"
	batchermod "embedbatch/internal/services/batcher/module"
	ledgermod "embedbatch/internal/services/ledger/module"

	"github.com/go-chi/chi/v5"
)

type lenBackend struct{}

func (lenBackend) Embed(_ context.Context, in []string) ([][]float32, error) {
	out := make([][]float32, len(in))
	for i, s := range in {
		out[i] = []float32{float32(len(s))}
	}
	return out, nil
}

func mountTest(t *testing.T, mc *metrics.Collector) stdhttp.Handler {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	m, err := Mount(r, Options{
		Config:  config.New(),
		Metrics: mc,
		Batcher: batchermod.Options{
			Batch: bdom.Config{MaxBatchSize: 4, MaxWait: 5 * time.Millisecond, QueueCapacity: 16},
		},
		Ledger:        ledgermod.Options{Sink: ledgermod.SinkOff},
		Backend:       lenBackend{},
		EnableSwagger: true,
	})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	w := module.MustPortsOf[bdom.WorkerPort](m.Batcher)
	go func() { _ = w.Run(context.Background()) }()
	t.Cleanup(func() {
		w.Close()
		<-w.Done()
	})
	return r.Mux()
}

func call(h stdhttp.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestMount_EndToEnd(t *testing.T) {
	mc := metrics.New("embedbatch")
	h := mountTest(t, mc)

	rec := call(h, stdhttp.MethodPost, "/embed", `{"inputs":["a","bb","ccc"]}`)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("/embed status = %d body=%s", rec.Code, rec.Body.String())
	}
	var bare []bdom.EmbedResult
	if err := json.Unmarshal(rec.Body.Bytes(), &bare); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(bare) != 3 || bare[0].Embedding[0] != 1 || bare[2].Embedding[0] != 3 {
		t.Fatalf("bare = %+v", bare)
	}
	if rec.Header().Get("Expires") == "" {
		t.Fatalf("root route missed the middleware stack")
	}

	rec = call(h, stdhttp.MethodPost, "/api/v1/batcher/embed", `{"inputs":["xy"]}`)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("versioned status = %d", rec.Code)
	}
	kit.MustContain(t, rec.Body.String(), `"data"`)

	rec = call(h, stdhttp.MethodGet, "/api/v1/meta/ready", "")
	kit.MustContain(t, rec.Body.String(), `"status":"ok"`)

	if rec := call(h, stdhttp.MethodGet, "/api/v1/ledger/recent", ""); rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("ledger off: status = %d, want 404", rec.Code)
	}

	rec = call(h, stdhttp.MethodGet, "/metrics", "")
	kit.MustContain(t, rec.Body.String(), `embedbatch_http_requests_total{method="POST",route="/embed",status="200"} 1`)
	kit.MustContain(t, rec.Body.String(), "embedbatch_batches_total")

	rec = call(h, stdhttp.MethodGet, "/api/docs/doc.json", "")
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("docs status = %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "/ledger/recent") {
		t.Fatalf("docs list ledger routes while the ledger is off")
	}
}

func TestMount_LedgerSinkWithoutStore(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	_, err := Mount(r, Options{
		Batcher: batchermod.Options{Batch: bdom.Config{MaxBatchSize: 1, QueueCapacity: 1}},
		Ledger:  ledgermod.Options{Sink: ledgermod.SinkPG},
		Backend: lenBackend{},
	})
	if err == nil {
		t.Fatalf("expected error for pg sink without a store")
	}
}
