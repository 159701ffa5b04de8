package module

import (
	"time"

	"embedbatch/internal/platform/config"
)

// Sinks accepted by CORE_LEDGER_SINK
const (
	SinkOff = "off"
	SinkPG  = "pg"
	SinkCH  = "ch"
)

// Options holds configuration settings for the ledger module
type Options struct {
	Sink       string
	Buffer     int
	FlushSize  int
	FlushEvery time.Duration
	HardLimit  int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	lc := cfg.Prefix("CORE_LEDGER_")
	return Options{
		Sink:       lc.MayEnum("SINK", SinkOff, SinkOff, SinkPG, SinkCH),
		Buffer:     lc.MayInt("BUFFER", 256),
		FlushSize:  lc.MayInt("FLUSH_SIZE", 64),
		FlushEvery: lc.MayDuration("FLUSH_EVERY", time.Second),
		HardLimit:  lc.MayInt("HARD_LIMIT", 500),
	}
}
