// Package domain defines the request and response shapes of the detect service
package domain

import (
	"langid/internal/core/langhint"
	"langid/internal/core/langid"
)

// MaxTop bounds how many languages one request may ask for
const MaxTop = 10

// DefaultTop is used when a frequent or batch request leaves top unset
const DefaultTop = 3

// LanguageInput asks for the single most likely language
type LanguageInput struct {
	Text string `json:"text"`
	// Markup skips HTML tags and entities
	Markup bool `json:"markup"`
}

// FrequentInput asks for up to Top languages
type FrequentInput struct {
	Text   string   `json:"text"`
	Top    int      `json:"top" validate:"omitempty,min=1,max=10"`
	Only   []string `json:"only" validate:"omitempty,max=32,dive,langcode"`
	Markup bool     `json:"markup"`
}

// BatchInput runs FrequentInput semantics over many texts
type BatchInput struct {
	Texts  []string `json:"texts" validate:"required,min=1"`
	Top    int      `json:"top" validate:"omitempty,min=1,max=10"`
	Only   []string `json:"only" validate:"omitempty,max=32,dive,langcode"`
	Markup bool     `json:"markup"`
}

// SpansInput asks for the per-span diagnostic view
type SpansInput struct {
	Text   string `json:"text"`
	Markup bool   `json:"markup"`
}

// LanguageOutput is the answer to LanguageInput. Prediction is nil when the
// text has nothing to classify
type LanguageOutput struct {
	Prediction *langid.Prediction `json:"prediction"`
	Hint       langhint.Hint      `json:"hint"`
}

// FrequentOutput is the answer to FrequentInput
type FrequentOutput struct {
	Languages []langid.Prediction `json:"languages"`
	Hint      langhint.Hint       `json:"hint"`
}

// BatchItem is one text's answer in a batch, in input order
type BatchItem struct {
	Index     int                 `json:"index"`
	Languages []langid.Prediction `json:"languages"`
}

// BatchOutput is the answer to BatchInput
type BatchOutput struct {
	Items []BatchItem `json:"items"`
}

// SpansOutput is the answer to SpansInput
type SpansOutput struct {
	Spans []langid.SpanReport `json:"spans"`
}

// CacheStats reports result cache usage
type CacheStats struct {
	Enabled  bool   `json:"enabled"`
	Size     int    `json:"size"`
	Capacity int    `json:"capacity"`
	Hits     uint64 `json:"hits"`
	Misses   uint64 `json:"misses"`
}
