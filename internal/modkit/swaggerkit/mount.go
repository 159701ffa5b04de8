// Package swaggerkit provides helpers to mount Swagger UI and OpenAPI document
package swaggerkit

import (
	"net/http"

	phttp "embedbatch/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount serves the Swagger UI and the JSON document when enabled; muts run on every document request
func Mount(r phttp.Router, enabled bool, muts ...SpecMutator) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(muts))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
