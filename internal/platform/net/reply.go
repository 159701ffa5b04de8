package net

import (
	"net/http"

	perr "embedbatch/internal/platform/errors"
)

// Wire is the JSON envelope shared by every transport. Data is set on
// success; Code and Error are set on failure
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

func wire(status int, reqID string) Wire {
	return Wire{StatusCode: status, Status: http.StatusText(status), RequestID: reqID}
}

// OK wraps data in a 200 envelope
func OK(data any, reqID string) (int, Wire) {
	w := wire(http.StatusOK, reqID)
	w.Data = data
	return w.StatusCode, w
}

// Error envelopes err under its mapped status; a nil err is OK(nil)
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return OK(nil, reqID)
	}
	ew := perr.WireFrom(err)
	w := wire(perr.HTTPStatusCode(ew.Code), reqID)
	w.Code, w.Error = ew.Code, ew.Message
	return w.StatusCode, w
}
