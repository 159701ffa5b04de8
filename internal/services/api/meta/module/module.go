// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	"embedbatch/internal/core/version"
	modkit "embedbatch/internal/modkit"
	"embedbatch/internal/modkit/httpkit"
	str "embedbatch/internal/platform/strings"

	metahttp "embedbatch/internal/services/api/meta/http"
)

// Module serves the health, readiness and version routes
type Module struct {
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	register []func(httpkit.Router)
}

// Upstream is injected with modkit.WithPorts
type Upstream struct {
	Worker metahttp.Worker
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	up, _ := b.Ports.(Upstream)
	hd := metahttp.Deps{
		ServiceName: version.Service,
		StartedAt:   time.Now(),
		Worker:      up.Worker,
		PG:          deps.PG,
		CH:          deps.CH,
	}

	return &Module{
		name:     b.Name,
		prefix:   b.Prefix,
		mws:      b.Mw,
		register: append([]func(httpkit.Router){func(r httpkit.Router) { metahttp.Register(r, hd) }}, b.Register...),
	}
}

// MountRoutes mounts the meta routes under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) { modkit.Mount(r, m.prefix, m.mws, m.register...) }

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports is nil; meta exposes nothing to other modules
func (m *Module) Ports() any { return nil }
