// Package module wires detect into the API using modkit
package module

import (
	"context"

	modkit "langid/internal/modkit"
	"langid/internal/modkit/httpkit"
	perr "langid/internal/platform/errors"
	"langid/internal/platform/logger"

	"langid/internal/services/detect/domain"
	dhttp "langid/internal/services/detect/http"
	"langid/internal/services/detect/service"
)

// Ports is what detect exposes to other modules
type Ports struct {
	Detector domain.DetectorPort
	Stats    domain.StatsPort
}

// Module implements modkit.Module for detect
type Module struct {
	built modkit.Built
	ports Ports
}

// New constructs the detect module. Without a loaded model every endpoint
// answers 503 so the process can still serve meta
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("detect"),
		modkit.WithPrefix("/detect"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	var ports Ports
	svc, err := service.New(deps.LangID, cfg.Service)
	if err != nil {
		logger.Named("detect").Warn().Err(err).Msg("detect module has no identifier")
		ports = Ports{Detector: unavailable{}, Stats: unavailable{}}
	} else {
		ports = Ports{Detector: svc, Stats: svc}
	}

	body := httpkit.BodyOptions{MaxBytes: cfg.MaxBodyBytes, DisallowUnknown: true}
	external := b.Register
	b.Register = func(r httpkit.Router) {
		dhttp.Register(r, ports.Detector, body)
		external(r)
	}
	return &Module{built: b, ports: ports}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) { m.built.Mount(r) }

// Name returns the module name
func (m *Module) Name() string { return m.built.Name }

// Ports returns Ports
func (m *Module) Ports() any { return m.ports }

// unavailable answers every call with 503
type unavailable struct{}

func errNoModel() error { return perr.Unavailablef("no language model loaded") }

func (unavailable) Language(context.Context, domain.LanguageInput) (domain.LanguageOutput, error) {
	return domain.LanguageOutput{}, errNoModel()
}

func (unavailable) Frequent(context.Context, domain.FrequentInput) (domain.FrequentOutput, error) {
	return domain.FrequentOutput{}, errNoModel()
}

func (unavailable) Batch(context.Context, domain.BatchInput) (domain.BatchOutput, error) {
	return domain.BatchOutput{}, errNoModel()
}

func (unavailable) Spans(context.Context, domain.SpansInput) (domain.SpansOutput, error) {
	return domain.SpansOutput{}, errNoModel()
}

func (unavailable) CacheStats() domain.CacheStats { return domain.CacheStats{} }
