package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "embedbatch/internal/platform/net/http"
	"embedbatch/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	// Timeout cancels request contexts; zero means 60s
	Timeout time.Duration
	// Slow marks access log lines at warn
	Slow time.Duration
	// MaxInFlight caps concurrent requests; zero disables the cap
	MaxInFlight int
	// Backlog is how many requests may wait for a slot, for up to Timeout
	Backlog int
	// Extra runs after the baseline (metrics, auth)
	Extra []func(http.Handler) http.Handler
}

// CommonStack returns the baseline middleware slice for API scopes
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}
	mws := []func(http.Handler) http.Handler{
		// tracing / correlation
		middleware.RequestID(),
		middleware.RealIP(),

		// safety
		middleware.RecoverJSON,

		// observability
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),

		middleware.NoCache(),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: []string{"*"}}),
		middleware.Compress(flate.BestSpeed),
		middleware.Timeout(o.Timeout),
	}
	if o.MaxInFlight > 0 {
		mws = append(mws, middleware.ThrottleBacklog(o.MaxInFlight, o.Backlog, o.Timeout))
	}
	return append(mws, o.Extra...)
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	return middleware.Auth(p, phttp.JSON)
}
