// Package module wires the batch ledger into the API using modkit
package module

import (
	"context"
	"net/http"
	"time"

	modkit "embedbatch/internal/modkit"
	"embedbatch/internal/modkit/httpkit"
	"embedbatch/internal/modkit/repokit"
	perr "embedbatch/internal/platform/errors"
	str "embedbatch/internal/platform/strings"

	"embedbatch/internal/services/ledger/domain"
	ledgerhttp "embedbatch/internal/services/ledger/http"
	"embedbatch/internal/services/ledger/repo"
	"embedbatch/internal/services/ledger/service"
)

// Module implements the ledger module
type Module struct {
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	register []func(httpkit.Router)

	rec   *service.Recorder
	ports Ports
}

// New picks the sink named by opts.Sink; a pg or ch sink without its store is an error
func New(deps modkit.Deps, opts Options, mopts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("ledger"),
		modkit.WithPrefix("/ledger"),
	}, mopts...)...)

	up, _ := b.Ports.(Upstream)

	m := &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
	}

	storage := up.Storage
	if storage == nil {
		s, err := sinkFor(deps, opts.Sink)
		if err != nil {
			return nil, err
		}
		storage = s
	}

	if storage != nil {
		m.rec = service.New(storage, service.Config{
			Buffer:     opts.Buffer,
			FlushSize:  opts.FlushSize,
			FlushEvery: opts.FlushEvery,
			HardLimit:  opts.HardLimit,
		}, up.Metrics)
		m.ports = Ports{Observer: m.rec, Recorder: m.rec, Reader: m.rec}
	}

	if m.rec != nil {
		m.register = append(m.register, func(r httpkit.Router) { ledgerhttp.Register(r, m.rec) })
	}
	m.register = append(m.register, b.Register...)
	return m, nil
}

func sinkFor(deps modkit.Deps, sink string) (domain.Storage, error) {
	switch sink {
	case SinkPG:
		if deps.PG == nil {
			return nil, perr.InvalidArgf("ledger sink %q needs SERVICE_PGSQL_DBURL", sink)
		}
		return repokit.MustBind(repo.NewPG(), repokit.WithBeginHooks(deps.PG, repo.LockTimeout(5*time.Second))), nil
	case SinkCH:
		if deps.CH == nil {
			return nil, perr.InvalidArgf("ledger sink %q needs SERVICE_CLICKHOUSE_DBURL", sink)
		}
		return repo.NewCH(deps.CH), nil
	case SinkOff, "":
		return nil, nil
	default:
		return nil, perr.WithField(perr.InvalidArgf("unknown ledger sink %q", sink), "sink")
	}
}

// Enabled reports whether a sink is configured
func (m *Module) Enabled() bool { return m.rec != nil }

// Start prepares the schema and runs the writer until ctx is cancelled; a disabled ledger returns at once
func (m *Module) Start(ctx context.Context) error {
	if m.rec == nil {
		return nil
	}
	if err := m.rec.EnsureSchema(ctx); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "ledger schema")
	}
	go func() { _ = m.rec.Run(ctx) }()
	return nil
}

// Done is closed once the writer has flushed and stopped; nil-safe for a disabled ledger
func (m *Module) Done() <-chan struct{} {
	if m.rec == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return m.rec.Done()
}

// MountRoutes mounts ledger routes under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) { modkit.Mount(r, m.prefix, m.mws, m.register...) }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "ledger") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
