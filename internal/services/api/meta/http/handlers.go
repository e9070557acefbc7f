// Package http provides meta endpoints
package http

import (
	"net/http"
	"time"

	"langid/internal/core/langid"
	"langid/internal/core/model"
	"langid/internal/core/version"
	"langid/internal/modkit/httpkit"
	perr "langid/internal/platform/errors"
	"langid/internal/services/detect/domain"
)

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	// LangID is nil when no model is loaded
	LangID *langid.Identifier
	// Stats looks up the detect cache counters at request time
	Stats func() (domain.StatsPort, bool)
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/model", h.model)
	httpkit.Get(r, "/cache", h.cache)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok fail
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

// ModelResponse describes the loaded model
type ModelResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Schema      uint16       `json:"schema"`
	HashVersion int          `json:"hash_version"`
	Languages   []string     `json:"languages"`
	Features    int          `json:"features"`
	Tuning      model.Tuning `json:"tuning"`
	// MinInputBytes and MaxInputBytes are the identifier's effective window
	MinInputBytes int `json:"min_input_bytes"`
	MaxInputBytes int `json:"max_input_bytes"`
}

// health handles GET /meta/health
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// ready handles GET /meta/ready and answers 503 until a model is loaded
func (h *handlers) ready(_ *http.Request) (any, error) {
	check := ReadyCheck{Name: "model", Status: "ok"}
	if h.deps.LangID == nil {
		check = ReadyCheck{Name: "model", Status: "fail", Error: "no language model loaded"}
	}
	out := ReadyResponse{
		Status: check.Status,
		Checks: []ReadyCheck{check},
		Now:    time.Now().UTC().Format(time.RFC3339),
	}
	if check.Status != "ok" {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

// version handles GET /meta/version
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// service handles GET /meta/service
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := time.Since(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}

// model handles GET /meta/model
func (h *handlers) model(_ *http.Request) (any, error) {
	id := h.deps.LangID
	if id == nil {
		return nil, perr.Unavailablef("no language model loaded")
	}
	m := id.Model()
	return ModelResponse{
		ID:            m.ID,
		Name:          m.Name,
		Schema:        m.Schema,
		HashVersion:   m.HashVersion,
		Languages:     m.Languages(),
		Features:      len(m.Features),
		Tuning:        m.Tuning,
		MinInputBytes: id.MinInputBytes(),
		MaxInputBytes: id.MaxInputBytes(),
	}, nil
}

// cache handles GET /meta/cache
func (h *handlers) cache(_ *http.Request) (any, error) {
	if h.deps.Stats != nil {
		if s, ok := h.deps.Stats(); ok {
			return s.CacheStats(), nil
		}
	}
	return domain.CacheStats{}, nil
}
