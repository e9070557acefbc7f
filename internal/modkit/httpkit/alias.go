// Package httpkit is the http surface modules build against. It re-exports the
// platform router, envelope and body options so modules never import
// internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "langid/internal/platform/net/http"
	"langid/internal/platform/net/http/bind"
)

type (
	// Router is the platform router seam
	Router = phttp.Router
	// Handler is the platform handler type
	Handler = phttp.Handler
	// Response lets a handler pick its status; return it as the handler value
	Response = phttp.Response
	// Envelope is the response body every route writes
	Envelope = phttp.Envelope
	// BodyOptions bound and shape JSON request bodies
	BodyOptions = bind.JSONOptions
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error returns a response whose status follows the error code
func Error(err error) Response { return phttp.Error(err) }

// Handle adapts a Response-returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Get mounts a bodiless GET handler; the value it returns goes out in the envelope
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.GetJSON(r, path, h)
}

// Post mounts a bodiless POST handler
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, phttp.JSONHandlerNoBody(h))
}

// PostJSON mounts a POST handler that receives the bound and validated T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...BodyOptions) {
	phttp.PostJSON(r, path, h, opts...)
}
