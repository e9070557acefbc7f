// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"langid/internal/core/version"
	modkit "langid/internal/modkit"
	"langid/internal/modkit/httpkit"
	modreg "langid/internal/modkit/module"
	str "langid/internal/platform/strings"

	metahttp "langid/internal/services/api/meta/http"
	"langid/internal/services/detect/domain"
	detectmod "langid/internal/services/detect/module"
)

// Module implements the modkit.Module interface
type Module struct {
	built modkit.Built
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	started := deps.Started
	if started.IsZero() {
		started = time.Now()
	}

	external := b.Register
	b.Register = func(r httpkit.Router) {
		metahttp.Register(r, metahttp.Deps{
			ServiceName: version.Info().Service,
			StartedAt:   started,
			LangID:      deps.LangID,
			Stats:       detectStats,
		})
		external(r)
	}
	return &Module{built: b}
}

// detectStats resolves the detect module's cache counters from the registry
func detectStats() (domain.StatsPort, bool) {
	p, ok := modreg.PortsAs[detectmod.Ports]("detect")
	if !ok || p.Stats == nil {
		return nil, false
	}
	return p.Stats, true
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) { m.built.Mount(r) }

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.built.Name, "meta") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
