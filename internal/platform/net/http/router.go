package http

import (
	"net/http"

	"langid/internal/platform/net/http/bind"
)

// Handler is the function shape every route is mounted with
type Handler = func(http.ResponseWriter, *http.Request)

// Router is the slice of chi that modules mount against; adapter_chi.go implements it
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Method(method, path string, h Handler)
	Handle(path string, h http.Handler)

	Use(mw ...func(http.Handler) http.Handler)
	Group(fn func(Router))
	Route(pattern string, fn func(Router))

	// Mux exposes the root handler for the server and for tests
	Mux() http.Handler
}

// GetJSON mounts a bodiless JSON handler for GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, JSONHandlerNoBody(h))
}

// PostJSON mounts a JSON handler for POST; opts bound the request body
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...bind.JSONOptions) {
	r.Post(path, JSONHandler(h, opts...))
}
