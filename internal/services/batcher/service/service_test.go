package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"embedbatch/internal/adapters/backend"
	perr "embedbatch/internal/platform/errors"

	dom "embedbatch/internal/services/batcher/domain"
)

func TestNew_RejectsBadConfig(t *testing.T) {
	cases := []dom.Config{
		{MaxBatchSize: 0, MaxWait: time.Millisecond, QueueCapacity: 1},
		{MaxBatchSize: 1, MaxWait: -time.Millisecond, QueueCapacity: 1},
		{MaxBatchSize: 1, MaxWait: time.Millisecond, QueueCapacity: 0},
	}
	for _, cfg := range cases {
		if _, err := New(cfg, &fakeBackend{}); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
			t.Fatalf("New(%+v) = %v, want invalid argument", cfg, err)
		}
	}
}

func TestEmbed_EmptyInputs(t *testing.T) {
	be := &fakeBackend{}
	s := startSvc(t, dom.Config{MaxBatchSize: 2, MaxWait: time.Millisecond, QueueCapacity: 1}, be)

	out, err := s.Embed(context.Background(), nil)
	if err != nil || out == nil || len(out) != 0 {
		t.Fatalf("Embed(nil) = %v, %v; want empty non-nil slice", out, err)
	}
	if len(be.seen()) != 0 {
		t.Fatalf("backend called for empty input")
	}
}

func TestEmbed_SequentialAwaitsEachInput(t *testing.T) {
	be := &fakeBackend{}
	s := startSvc(t, dom.Config{MaxBatchSize: 8, MaxWait: 10 * time.Millisecond, QueueCapacity: 8}, be)

	out, err := s.Embed(context.Background(), []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(out) != 3 || out[2].Embedding[0] != 3 {
		t.Fatalf("out = %+v", out)
	}
	// one input in flight at a time means one record per batch
	if got := be.seen(); len(got) != 3 {
		t.Fatalf("batches = %v, want three singletons", got)
	}
}

func TestEmbed_SequentialStopsAtFirstFailure(t *testing.T) {
	be := &fakeBackend{fn: func(in []string) ([][]float32, error) {
		if slices.Contains(in, "bad") {
			return nil, dom.BackendParseFailed("unexpected token")
		}
		return [][]float32{{1}}, nil
	}}
	s := startSvc(t, dom.Config{MaxBatchSize: 8, MaxWait: 5 * time.Millisecond, QueueCapacity: 8}, be)

	_, err := s.Embed(context.Background(), []string{"ok", "bad", "never"})
	if !perr.IsCode(err, perr.ErrorCodeBadUpstream) {
		t.Fatalf("err = %v, want parse failure", err)
	}
	for _, b := range be.seen() {
		if slices.Contains(b, "never") {
			t.Fatalf("input after the failure was submitted: %v", be.seen())
		}
	}
}

func TestEmbed_FanOutReportsFirstFailureInInputOrder(t *testing.T) {
	be := &fakeBackend{fn: func(in []string) ([][]float32, error) {
		return [][]float32{{1}}, nil
	}}
	s := startSvc(t, dom.Config{MaxBatchSize: 3, MaxWait: 500 * time.Millisecond, QueueCapacity: 8, FanOut: true}, be)

	_, err := s.Embed(context.Background(), []string{"a", "b", "c"})
	if !errors.Is(err, dom.ErrWorkerAborted) {
		t.Fatalf("err = %v, want ErrWorkerAborted", err)
	}
}

func TestEmbed_NullEmbeddingsFailWholeBatch(t *testing.T) {
	for _, body := range []string{`null`, `[[1.0],null]`} {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			s := startSvc(t, dom.Config{MaxBatchSize: 2, MaxWait: time.Second, QueueCapacity: 4, FanOut: true},
				backend.NewClient(backend.Options{URL: srv.URL}))
			out, err := s.Embed(context.Background(), []string{"a", "b"})
			if out != nil || !perr.IsCode(err, perr.ErrorCodeBadUpstream) {
				t.Fatalf("Embed = %+v, %v; want parse failure", out, err)
			}
			if perr.HTTPStatus(err) != http.StatusBadGateway {
				t.Fatalf("status = %d, want 502", perr.HTTPStatus(err))
			}
		})
	}
}

func TestEmbed_QueueClosed(t *testing.T) {
	s := startSvc(t, dom.Config{MaxBatchSize: 1, MaxWait: time.Millisecond, QueueCapacity: 1}, &fakeBackend{})
	s.Close()
	<-s.Done()

	_, err := s.Embed(context.Background(), []string{"a"})
	if !errors.Is(err, dom.ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
	if perr.HTTPStatus(err) != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", perr.HTTPStatus(err))
	}
}

func TestEmbed_AggregatorGoneAborts(t *testing.T) {
	s, err := New(dom.Config{MaxBatchSize: 1, MaxWait: time.Millisecond, QueueCapacity: 1}, &fakeBackend{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// a record accepted by the queue but never collected
	req, err := s.submit(context.Background(), "orphan")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	s.q.Close()
	close(s.agg.done)

	if _, err := s.await(context.Background(), req); !errors.Is(err, dom.ErrWorkerAborted) {
		t.Fatalf("await = %v, want ErrWorkerAborted", err)
	}
	if perr.HTTPStatus(dom.ErrWorkerAborted) != http.StatusInternalServerError {
		t.Fatalf("aborted status mismatch")
	}
}

func TestEmbed_CallerContextCancel(t *testing.T) {
	be := &fakeBackend{delay: 200 * time.Millisecond}
	s := startSvc(t, dom.Config{MaxBatchSize: 1, MaxWait: time.Millisecond, QueueCapacity: 1}, be)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := s.Embed(ctx, []string{"slow"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestStats_AverageBatchSize(t *testing.T) {
	s := startSvc(t, dom.Config{MaxBatchSize: 2, MaxWait: 5 * time.Millisecond, QueueCapacity: 8, FanOut: true}, &fakeBackend{})
	if _, err := s.Embed(context.Background(), []string{"a", "b", "c", "d"}); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	st := s.Stats()
	if st.Submitted != 4 || st.Delivered != 4 {
		t.Fatalf("stats = %+v", st)
	}
	if st.AvgBatchSize < 1 || st.AvgBatchSize > 2 {
		t.Fatalf("AvgBatchSize = %v", st.AvgBatchSize)
	}
}
