package module

import (
	"time"

	"embedbatch/internal/adapters/backend"
	"embedbatch/internal/platform/config"
	"embedbatch/internal/services/batcher/domain"
)

// Options holds configuration settings for the batcher module
type Options struct {
	Batch   domain.Config
	Backend backend.Options

	// Tokens enables bearer auth on the embedding routes when non-empty
	Tokens []string

	MaxBodyBytes int64
}

// FromConfig reads batcher, backend and api settings
func FromConfig(cfg config.Conf) Options {
	bc := cfg.Prefix("CORE_BATCH_")
	be := cfg.Prefix("CORE_BACKEND_")
	api := cfg.Prefix("CORE_API_")
	return Options{
		Batch: domain.Config{
			MaxBatchSize:  bc.MayInt("MAX_SIZE", 8),
			MaxWait:       bc.MayDuration("MAX_WAIT", 50*time.Millisecond),
			QueueCapacity: bc.MayInt("QUEUE_CAP", 100),
			FanOut:        bc.MayBool("FANOUT", false),
		},
		Backend: backend.Options{
			URL:          be.MayString("URL", "http://localhost:8080/embed"),
			Timeout:      be.MayDuration("TIMEOUT", 0),
			MaxBodyBytes: int64(be.MayInt("MAX_BODY", 64<<20)),
		},
		Tokens:       api.MayCSV("TOKENS", nil),
		MaxBodyBytes: int64(api.MayInt("MAX_BODY", 16<<20)),
	}
}
