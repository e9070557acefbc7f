package modkit

import (
	"net/http"
	"slices"

	"langid/internal/modkit/httpkit"
	pstrings "langid/internal/platform/strings"
)

// Built is what a module keeps after applying its options
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Ports    any
	Register func(httpkit.Router)
}

// Option adjusts a module while it is being built
type Option func(*Built)

// WithName names the module for logs and the port registry; the name must not be blank
func WithName(name string) Option {
	return func(b *Built) { b.Name = pstrings.MustString(name, "module name") }
}

// WithPrefix mounts the module under prefix, normalized to one leading slash
func WithPrefix(prefix string) Option {
	return func(b *Built) { b.Prefix = pstrings.MustPrefix(prefix) }
}

// WithMiddlewares appends per module middleware, outermost first
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(b *Built) { b.Mw = append(b.Mw, mw...) }
}

// WithPorts sets the port set the module publishes to its peers
func WithPorts[T any](p T) Option {
	return func(b *Built) { b.Ports = p }
}

// WithRegister sets the function that adds the module's endpoints
func WithRegister(fn func(httpkit.Router)) Option {
	return func(b *Built) { b.Register = fn }
}

// Build applies opts in order. The result never shares its middleware slice
// with the caller and always has a Register func
func Build(opts ...Option) Built {
	var b Built
	for _, o := range opts {
		o(&b)
	}
	b.Mw = slices.Clone(b.Mw)
	if b.Register == nil {
		b.Register = func(httpkit.Router) {}
	}
	return b
}

// Mount attaches the module under its prefix, or to r directly when it has none
func (b Built) Mount(r httpkit.Router) {
	switch {
	case b.Prefix != "":
		httpkit.MountUnder(r, b.Prefix, b.Mw, b.Register)
	case len(b.Mw) > 0:
		r.Group(func(g httpkit.Router) {
			g.Use(b.Mw...)
			b.Register(g)
		})
	default:
		b.Register(r)
	}
}
