// Package modkit builds API modules from shared deps and functional options
package modkit

import "embedbatch/internal/modkit/module"

// Module is the contract every API module satisfies
type Module = module.Module
