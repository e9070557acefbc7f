package http

import (
	"net/http"

	"langid/internal/platform/net/http/bind"
)

// JSONHandler binds and validates a T body with bind.ParseJSON, then calls fn
func JSONHandler[T any](fn func(*http.Request, T) (any, error), opts ...bind.JSONOptions) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r, opts...)
		if err != nil {
			return Error(err)
		}
		return Result(fn(r, in))
	})
}

// JSONHandlerNoBody is JSONHandler for routes that carry no request body
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response { return Result(fn(r)) })
}

// Result folds a handler's return pair into a Response. A Response value is
// passed through so handlers can pick their own status
func Result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}
