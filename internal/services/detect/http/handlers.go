// Package http provides http transport for detect
package http

import (
	stdhttp "net/http"

	"langid/internal/modkit/httpkit"
	"langid/internal/services/detect/domain"
)

// Register mounts the detect endpoints on r. opts bounds every request body
func Register(r httpkit.Router, s domain.DetectorPort, opts httpkit.BodyOptions) {
	h := &handlers{svc: s}

	// single best language
	httpkit.PostJSON[domain.LanguageInput](r, "/language", h.language, opts)

	// ranked languages with proportions and ranges
	httpkit.PostJSON[domain.FrequentInput](r, "/frequent", h.frequent, opts)

	httpkit.PostJSON[domain.BatchInput](r, "/batch", h.batch, opts)

	// per-span diagnostics
	httpkit.PostJSON[domain.SpansInput](r, "/spans", h.spans, opts)
}

type handlers struct{ svc domain.DetectorPort }

// language handles POST /detect/language
func (h *handlers) language(r *stdhttp.Request, in domain.LanguageInput) (any, error) {
	return h.svc.Language(r.Context(), in)
}

// frequent handles POST /detect/frequent
func (h *handlers) frequent(r *stdhttp.Request, in domain.FrequentInput) (any, error) {
	return h.svc.Frequent(r.Context(), in)
}

// batch handles POST /detect/batch
func (h *handlers) batch(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	return h.svc.Batch(r.Context(), in)
}

// spans handles POST /detect/spans
func (h *handlers) spans(r *stdhttp.Request, in domain.SpansInput) (any, error) {
	return h.svc.Spans(r.Context(), in)
}
