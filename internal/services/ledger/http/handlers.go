// Package http provides http transport for the batch ledger
package http

import (
	stdhttp "net/http"
	"strconv"

	"embedbatch/internal/modkit/httpkit"
	perr "embedbatch/internal/platform/errors"
	"embedbatch/internal/services/ledger/domain"
)

// Register mounts ledger endpoints on the given router
func Register(r httpkit.Router, reader domain.ReaderPort) {
	h := &handlers{reader: reader}
	httpkit.Get(r, "/recent", h.recent)
}

type handlers struct{ reader domain.ReaderPort }

// recent lists newest batches first; limit defaults to 50 when absent or zero
func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, perr.WithField(perr.InvalidArgf("limit must be a non-negative integer"), "limit")
		}
		limit = n
	}
	return h.reader.Recent(r.Context(), limit)
}
