// Package http is the HTTP face of the platform: the router seam, the server
// and return-style handlers that answer in one JSON envelope
package http

import (
	"encoding/json"
	stdhttp "net/http"

	pnet "embedbatch/internal/platform/net"
)

// Envelope is the body of every enveloped reply
type Envelope = pnet.Wire

// JSON encodes v with status; encode errors are dropped since the header is already out
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return-style handlers hand back. An error Body always wins
// and is enveloped with its mapped status; Bare skips the envelope on success
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
	Bare   bool
}

// OK is a 200 carrying data in the envelope
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Bare is a 200 whose body is v itself; the root embed route answers this way
func Bare(v any) Response { return Response{Status: stdhttp.StatusOK, Body: v, Bare: true} }

// Error lets the error pick the status
func Error(err error) Response { return Response{Body: err} }

// Handle serves h
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) { h(r).write(w, r) }
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	reqID := pnet.RequestID(r.Context())

	if err, ok := resp.Body.(error); ok && err != nil {
		code, env := pnet.Error(err, reqID)
		JSON(w, code, env)
		return
	}

	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	switch {
	case status == stdhttp.StatusNoContent:
		w.WriteHeader(status)
	case resp.Bare:
		JSON(w, status, resp.Body)
	default:
		_, env := pnet.OK(resp.Body, reqID)
		env.StatusCode, env.Status = status, stdhttp.StatusText(status)
		JSON(w, status, env)
	}
}
