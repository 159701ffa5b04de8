package domain

import perr "embedbatch/internal/platform/errors"

var (
	// ErrQueueClosed is returned when work is submitted after shutdown began
	ErrQueueClosed = perr.New(perr.ErrorCodeUnavailable, "batch queue closed")

	// ErrWorkerAborted is returned when the aggregator will never answer a record
	ErrWorkerAborted = perr.New(perr.ErrorCodeAborted, "batch worker task aborted")
)

// BackendRequestFailed builds the transport failure shared by a whole batch
func BackendRequestFailed(cause any) error {
	return perr.BadGatewayf("backend request failed: %v", cause)
}

// BackendParseFailed builds the decode failure shared by a whole batch
func BackendParseFailed(cause any) error {
	return perr.BadUpstreamf("failed to parse backend JSON: %v", cause)
}
