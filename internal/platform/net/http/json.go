package http

import (
	"net/http"

	"embedbatch/internal/platform/net/http/bind"
)

// JSONHandler adapts a pure JSON handler to a platform Handler
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return JSONHandlerWith(bind.JSONOptions{}, fn)
}

// JSONHandlerWith is JSONHandler with explicit bind options; the zero value means defaults
// fn may return a Response to control the status or skip the envelope
func JSONHandlerWith[T any](opts bind.JSONOptions, fn func(*http.Request, T) (any, error)) Handler {
	var bopts []bind.JSONOptions
	if opts != (bind.JSONOptions{}) {
		bopts = append(bopts, opts)
	}
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r, bopts...)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		if resp, ok := out.(Response); ok {
			return resp
		}
		return OK(out)
	})
}
