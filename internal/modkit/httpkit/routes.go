// Package httpkit is what module transports import for routing: the router
// seam, envelope adapters and the versioned API mount
package httpkit

import (
	"net/http"

	phttp "embedbatch/internal/platform/net/http"
	"embedbatch/internal/platform/net/http/bind"
)

type (
	// Router is the platform router seam
	Router = phttp.Router

	// Envelope is the reply body for enveloped routes and every error
	Envelope = phttp.Envelope

	// BindOptions controls JSON body parsing
	BindOptions = bind.JSONOptions
)

// Bare marks a handler result to be written without the envelope
func Bare(v any) phttp.Response { return phttp.Bare(v) }

// Get mounts a body-less handler; a returned phttp.Response is written as is,
// anything else is enveloped as data
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.Handle(func(req *http.Request) phttp.Response {
		out, err := h(req)
		if err != nil {
			return phttp.Error(err)
		}
		if resp, ok := out.(phttp.Response); ok {
			return resp
		}
		return phttp.OK(out)
	}))
}

// PostJSONWith mounts a POST handler whose body is bound and validated with opts
func PostJSONWith[T any](r Router, path string, opts BindOptions, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.JSONHandlerWith(opts, h))
}

// MountAPIV1 scopes mw and the routes mount adds under /api/v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/v1", func(api Router) {
		if len(mw) > 0 {
			api.Use(mw...)
		}
		mount(api)
	})
}
