// Package module defines the module contract and typed port lookup
package module

import phttp "embedbatch/internal/platform/net/http"

// Module mounts its routes and exposes a port bundle other modules can consume
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
