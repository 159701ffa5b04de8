// Package module wires the batcher into the API using modkit
package module

import (
	"net/http"

	"embedbatch/internal/adapters/backend"
	modkit "embedbatch/internal/modkit"
	"embedbatch/internal/modkit/httpkit"
	str "embedbatch/internal/platform/strings"

	"embedbatch/internal/services/batcher/domain"
	batcherhttp "embedbatch/internal/services/batcher/http"
	"embedbatch/internal/services/batcher/service"
)

// Module implements the batcher module
type Module struct {
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	register []func(httpkit.Router)

	opts  Options
	svc   *service.Svc
	auth  *httpkit.Port
	ports Ports
}

// New builds the queue, aggregator and backend client; the aggregator starts with Ports().Worker.Run
func New(deps modkit.Deps, opts Options, mopts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("batcher"),
		modkit.WithPrefix("/batcher"),
	}, mopts...)...)

	up, _ := b.Ports.(Upstream)

	var be domain.Backend = up.Backend
	if be == nil {
		be = backend.NewClient(opts.Backend)
	}

	obs := append([]domain.Observer(nil), up.Observers...)
	if up.Metrics != nil {
		obs = append(obs, service.MetricsObserver(up.Metrics))
	}

	svc, err := service.New(opts.Batch, be, obs...)
	if err != nil {
		return nil, err
	}

	m := &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		opts:   opts,
		svc:    svc,
	}
	if len(opts.Tokens) > 0 {
		m.auth = httpkit.NewPortFunc(httpkit.StaticTokens(opts.Tokens))
	}
	m.ports = Ports{Worker: svc, Embedder: svc, Stats: svc, State: svc}

	own := func(r httpkit.Router) {
		httpkit.Protected(r, m.authPort(), func(pr httpkit.Router) {
			batcherhttp.Register(pr, m.httpDeps())
		})
	}
	m.register = append([]func(httpkit.Router){own}, b.Register...)
	return m, nil
}

func (m *Module) httpDeps() batcherhttp.Deps {
	return batcherhttp.Deps{Embed: m.svc, Stats: m.svc, MaxBodyBytes: m.opts.MaxBodyBytes}
}

// authPort keeps a nil *Port from becoming a non-nil interface
func (m *Module) authPort() httpkit.AuthPort {
	if m.auth == nil {
		return nil
	}
	return m.auth
}

// MountRoutes mounts the versioned routes under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) { modkit.Mount(r, m.prefix, m.mws, m.register...) }

// MountRoot mounts POST /embed on the root router
func (m *Module) MountRoot(r httpkit.Router) {
	httpkit.Protected(r, m.authPort(), func(pr httpkit.Router) {
		batcherhttp.RegisterRoot(pr, m.httpDeps())
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "batcher") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
