package module

import (
	"embedbatch/internal/platform/metrics"
	bdom "embedbatch/internal/services/batcher/domain"
	"embedbatch/internal/services/ledger/domain"
	"embedbatch/internal/services/ledger/service"
)

// Ports exposed by the ledger module; all nil when the sink is off
type Ports struct {
	Observer bdom.Observer
	Recorder *service.Recorder
	Reader   domain.ReaderPort
}

// Upstream is injected with modkit.WithPorts
type Upstream struct {
	Metrics *metrics.Collector

	// Storage replaces the configured sink, used by tests
	Storage domain.Storage
}
