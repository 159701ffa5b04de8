package pg

import (
	"context"
	"strings"

	"embedbatch/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives every statement run through the store adapter
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs statements under component pg; it pins the child to debug so
// SQL logging stays on even when the root level is raised
func Tracer(root logger.Logger) QueryTracer {
	return logTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type logTracer struct{ log zerolog.Logger }

func (l logTracer) OnQuery(_ context.Context, ev QueryEvent) {
	lvl := zerolog.InfoLevel
	if ev.Slow {
		lvl = zerolog.WarnLevel
	}
	l.log.WithLevel(lvl).
		Float64("elapsed_ms", float64(ev.ElapsedUS)/1000).
		Bool("slow", ev.Slow).
		Str("sql", oneLine(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

// oneLine collapses whitespace runs so multi-line statements log on a single line
func oneLine(sql string) string { return strings.Join(strings.Fields(sql), " ") }
