// Package http provides http transport for the batcher
package http

import (
	stdhttp "net/http"

	"embedbatch/internal/modkit/httpkit"
	"embedbatch/internal/services/batcher/domain"
)

// Deps are the handler dependencies
type Deps struct {
	Embed domain.EmbedPort
	Stats domain.StatsPort

	// MaxBodyBytes caps inbound request bodies; zero keeps the bind default
	MaxBodyBytes int64
}

type handlers struct{ deps Deps }

// Register mounts the versioned batcher endpoints
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.PostJSONWith(r, "/embed", bodyOpts(d), h.embed)
	httpkit.Get(r, "/stats", h.stats)
}

// RegisterRoot mounts the unversioned embedding route that answers with a bare array
func RegisterRoot(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}
	httpkit.PostJSONWith(r, "/embed", bodyOpts(d), h.embedBare)
}

// unknown fields are tolerated so clients can send extra model hints
func bodyOpts(d Deps) httpkit.BindOptions {
	max := d.MaxBodyBytes
	if max <= 0 {
		max = 16 << 20
	}
	return httpkit.BindOptions{MaxBytes: max, DisallowUnknown: false}
}

// embedBare answers the root route with the vectors alone
func (h *handlers) embedBare(r *stdhttp.Request, in domain.EmbedRequest) (any, error) {
	out, err := h.deps.Embed.Embed(r.Context(), in.Inputs)
	if err != nil {
		return nil, err
	}
	return httpkit.Bare(out), nil
}

func (h *handlers) embed(r *stdhttp.Request, in domain.EmbedRequest) (any, error) {
	return h.deps.Embed.Embed(r.Context(), in.Inputs)
}

func (h *handlers) stats(_ *stdhttp.Request) (any, error) {
	return h.deps.Stats.Stats(), nil
}
