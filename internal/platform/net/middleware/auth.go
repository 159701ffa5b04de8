package middleware

import (
	"net/http"

	"embedbatch/internal/platform/logger"
	pnet "embedbatch/internal/platform/net"
)

// AuthPort resolves the calling client from a request
type AuthPort interface {
	// Parse returns a client label or an error
	Parse(r *http.Request) (clientID string, err error)
}

// Auth rejects requests the port cannot resolve and tags the rest with the client label
// a nil port lets everything through
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			client, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			reqID := pnet.RequestID(r.Context())
			ctx := pnet.WithRequest(r.Context(), reqID, client)
			ctx = logger.WithRequest(ctx, reqID, client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
