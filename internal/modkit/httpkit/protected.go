package httpkit

import "embedbatch/internal/platform/net/middleware"

// AuthPort resolves the calling client from a request
type AuthPort = middleware.AuthPort

// Protected groups routes under bearer auth; a nil port mounts them open
func Protected(r Router, p AuthPort, fn func(Router)) {
	if p == nil {
		fn(r)
		return
	}
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(gr)
	})
}
