package module

import (
	"fmt"
	"reflect"
	"sync"
)

// Registry maps module names to the port sets they published at startup
type Registry struct {
	mu    sync.RWMutex
	ports map[string]any
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry { return &Registry{ports: map[string]any{}} }

// Register publishes ports under name, replacing any earlier set
func (r *Registry) Register(name string, ports any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ports[name] = ports
}

// Lookup returns the raw port set for name
func (r *Registry) Lookup(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.ports[name]
	return p, ok
}

// Reset drops every registration
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.ports)
}

// process-wide registry used by the api composition root
var global = NewRegistry()

// Register publishes ports under name in the process registry
func Register(name string, ports any) { global.Register(name, ports) }

// Reset clears the process registry; tests call it between compositions
func Reset() { global.Reset() }

// PortsAs reads the port set registered under name as T
func PortsAs[T any](name string) (T, bool) {
	var zero T
	p, ok := global.Lookup(name)
	if !ok {
		return zero, false
	}
	t, ok := p.(T)
	return t, ok
}

// PortsOf finds a T in m's ports without the registry. The ports value itself
// is checked first, then each exported field of a struct (or struct pointer)
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	p := m.Ports()
	if p == nil {
		return zero, false
	}
	if t, ok := p.(T); ok {
		return t, true
	}

	rv := reflect.Indirect(reflect.ValueOf(p))
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := range rv.NumField() {
		if !rv.Type().Field(i).IsExported() {
			continue
		}
		if t, ok := rv.Field(i).Interface().(T); ok {
			return t, true
		}
	}
	return zero, false
}

// MustPortsOf is PortsOf for wiring that cannot proceed without the port
func MustPortsOf[T any](m Module) T {
	t, ok := PortsOf[T](m)
	if !ok {
		panic(fmt.Sprintf("module %s: requested port not found (%T)", m.Name(), (*T)(nil)))
	}
	return t
}
