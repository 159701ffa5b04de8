// Package domain defines the batch ledger types and ports
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Record is one dispatched batch as stored in the ledger
type Record struct {
	BatchID      uuid.UUID `json:"batch_id"      example:"3f1c2a4e-8d1b-4c55-9a7e-1b2c3d4e5f60"`
	Size         int       `json:"size"          example:"8"`
	Reason       string    `json:"reason"        example:"size"`
	WindowMs     float64   `json:"window_ms"     example:"12.5"`
	BackendMs    float64   `json:"backend_ms"    example:"41.2"`
	Outcome      string    `json:"outcome"       example:"ok"`
	Delivered    int       `json:"delivered"     example:"8"`
	Failed       int       `json:"failed"        example:"0"`
	Aborted      int       `json:"aborted"       example:"0"`
	Error        string    `json:"error,omitempty"`
	DispatchedAt time.Time `json:"dispatched_at" example:"2025-09-03T13:05:00Z"`
}
