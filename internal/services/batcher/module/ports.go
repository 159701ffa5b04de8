package module

import (
	"embedbatch/internal/platform/metrics"
	"embedbatch/internal/services/batcher/domain"
)

// Ports exposed by the batcher module
type Ports struct {
	Worker   domain.WorkerPort
	Embedder domain.EmbedPort
	Stats    domain.StatsPort
	State    StatePort
}

// StatePort reports whether the aggregator can still answer
type StatePort interface {
	State() domain.State
	QueueClosed() bool
}

// Upstream is injected with modkit.WithPorts
type Upstream struct {
	// Backend replaces the HTTP client, used by tests and alternate transports
	Backend domain.Backend

	Metrics   *metrics.Collector
	Observers []domain.Observer
}
