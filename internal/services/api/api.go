// Package api composes the HTTP API for the service
package api

import (
	"net/http"
	"time"

	"embedbatch/internal/platform/config"
	"embedbatch/internal/platform/logger"
	"embedbatch/internal/platform/metrics"
	phttp "embedbatch/internal/platform/net/http"
	"embedbatch/internal/platform/store"

	"embedbatch/internal/modkit"
	"embedbatch/internal/modkit/httpkit"
	"embedbatch/internal/modkit/module"
	"embedbatch/internal/modkit/swaggerkit"

	metamod "embedbatch/internal/services/api/meta/module"
	bdom "embedbatch/internal/services/batcher/domain"
	batchermod "embedbatch/internal/services/batcher/module"
	ledgermod "embedbatch/internal/services/ledger/module"
)

// Options are the API options
type Options struct {
	Config  config.Conf
	Store   *store.Store
	Logger  *logger.Logger
	Metrics *metrics.Collector

	Batcher batchermod.Options
	Ledger  ledgermod.Options

	// Backend replaces the HTTP backend client when set
	Backend bdom.Backend

	SlowRequest time.Duration
	// MaxInFlight caps concurrent API requests; Backlog more may wait for a slot
	MaxInFlight int
	Backlog     int

	EnableSwagger  bool
	EnableProfiler bool
}

// Mounted exposes the modules main has to start and stop
type Mounted struct {
	Batcher *batchermod.Module
	Ledger  *ledgermod.Module
}

// Mount builds every module and mounts it onto the given router
func Mount(r phttp.Router, opt Options) (*Mounted, error) {
	// shared deps for modules
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}

	// ledger first so the batcher can feed it
	ledger, err := ledgermod.New(deps, opt.Ledger, modkit.WithPorts(ledgermod.Upstream{Metrics: opt.Metrics}))
	if err != nil {
		return nil, err
	}
	var observers []bdom.Observer
	if ledger.Enabled() {
		observers = append(observers, module.MustPortsOf[bdom.Observer](ledger))
	}

	batcher, err := batchermod.New(deps, opt.Batcher, modkit.WithPorts(batchermod.Upstream{
		Backend:   opt.Backend,
		Metrics:   opt.Metrics,
		Observers: observers,
	}))
	if err != nil {
		return nil, err
	}

	meta := metamod.New(deps, modkit.WithPorts(metamod.Upstream{
		Worker: module.MustPortsOf[batchermod.StatePort](batcher),
	}))

	mods := []module.Module{meta, batcher, ledger}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		Slow:        opt.SlowRequest,
		MaxInFlight: opt.MaxInFlight,
		Backlog:     opt.Backlog,
		Extra:       []func(http.Handler) http.Handler{opt.Metrics.Middleware()},
	})

	// unversioned POST /embed for clients that expect a bare array
	r.Group(func(root httpkit.Router) {
		root.Use(stack...)
		batcher.MountRoot(root)
	})

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	if opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}
	var docMuts []swaggerkit.SpecMutator
	if !ledger.Enabled() {
		docMuts = append(docMuts, swaggerkit.DropPath("/ledger/recent"))
	}
	swaggerkit.Mount(r, opt.EnableSwagger, docMuts...)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	return &Mounted{Batcher: batcher, Ledger: ledger}, nil
}
