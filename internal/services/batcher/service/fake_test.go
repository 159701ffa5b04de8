package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"embedbatch/internal/platform/testkit"
	dom "embedbatch/internal/services/batcher/domain"
)

// fakeBackend records every batch and answers with fn or, by default, one
// single-element embedding per input whose value is the input's position in the call order
type fakeBackend struct {
	mu      sync.Mutex
	batches [][]string
	at      []time.Time
	delay   time.Duration
	fn      func(inputs []string) ([][]float32, error)
}

func (f *fakeBackend) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	f.mu.Lock()
	f.batches = append(f.batches, append([]string(nil), inputs...))
	f.at = append(f.at, time.Now())
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fn != nil {
		return f.fn(inputs)
	}
	out := make([][]float32, len(inputs))
	for i := range inputs {
		out[i] = []float32{float32(len(inputs[i]))}
	}
	return out, nil
}

func (f *fakeBackend) seen() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.batches...)
}

func (f *fakeBackend) dispatchTimes() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.at...)
}

// startSvc builds a service, runs the aggregator, and stops it at cleanup
func startSvc(t *testing.T, cfg dom.Config, be dom.Backend, obs ...dom.Observer) *Svc {
	t.Helper()
	s, err := New(cfg, be, obs...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	go func() { _ = s.Run(context.Background()) }()
	waitState(t, s, dom.StateAwaitingFirst)
	t.Cleanup(func() {
		s.Close()
		select {
		case <-s.Done():
		case <-time.After(2 * time.Second):
			t.Errorf("aggregator did not stop")
		}
	})
	return s
}

func waitState(t *testing.T, s *Svc, want dom.State) {
	t.Helper()
	testkit.Eventually(t, "state "+want.String(), time.Second, func() bool { return s.State() == want })
}
