// Package middleware holds the HTTP middleware the API scopes stack; chi and
// go-chi/cors types stay behind plain func(http.Handler) http.Handler values
package middleware

import (
	"net/http"
	"time"

	pstrings "embedbatch/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID reuses an incoming X-Request-ID or mints one
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP trusts X-Forwarded-For and X-Real-IP for RemoteAddr
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// NoCache marks every response uncacheable
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// Timeout cancels the request context after d; a handler still running answers 504
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// Compress negotiates gzip or deflate at level for JSON and text bodies
func Compress(level int) func(http.Handler) http.Handler {
	return chimw.NewCompressor(level, "application/json", "text/plain", "text/html").Handler
}

// ThrottleBacklog admits limit requests at once, parks backlog more for up to
// wait and answers 429 to the rest
func ThrottleBacklog(limit, backlog int, wait time.Duration) func(http.Handler) http.Handler {
	return chimw.ThrottleBacklog(limit, backlog, wait)
}

// embed and read routes only
var (
	corsMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	corsHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Client-ID"}
)

// CORSOptions picks what callers may override; empty slices take the API defaults
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// CORS answers preflights for the embed API
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: o.AllowedOrigins,
		AllowedMethods: pstrings.IfEmpty(o.AllowedMethods, corsMethods),
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, corsHeaders),
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         o.MaxAge,
	})
}
