package modkit

import (
	"net/http"
	"slices"

	"embedbatch/internal/modkit/httpkit"
	str "embedbatch/internal/platform/strings"
)

// Built is the resolved option set a module constructor reads
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// Register holds routes added with WithRegister
	Register []func(httpkit.Router)
}

// Build applies opts in order; later options win for scalar fields
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       slices.Clone(c.mw),
		Ports:    c.ports,
		Register: slices.Clone(c.register),
	}
}

// Mount routes everything under the normalized prefix, installs mws on that sub router, then runs each register
func Mount(r httpkit.Router, prefix string, mws []func(http.Handler) http.Handler, register ...func(httpkit.Router)) {
	r.Route(str.MustPrefix(prefix), func(rr httpkit.Router) {
		for _, mw := range mws {
			rr.Use(mw)
		}
		for _, fn := range register {
			fn(rr)
		}
	})
}
