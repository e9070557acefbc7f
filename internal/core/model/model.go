// Package model holds the language identification model artifact: class table,
// feature specs, network weights and tuning, plus its versioned binary codec
package model

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"langid/internal/core/features"
	"langid/internal/core/nnet"
)

// Schema is the artifact layout version; bump when Model changes shape
const Schema uint16 = 1

// Unknown is the reserved class for text no language explains
const Unknown = "und"

// Tuning carries the thresholds and span limits shipped with a model
type Tuning struct {
	MinSpanBytes  int `msgpack:"min_span_bytes" toml:"min_span_bytes" json:"min_span_bytes"`
	MaxSpanBytes  int `msgpack:"max_span_bytes" toml:"max_span_bytes" json:"max_span_bytes"`
	MinInputBytes int `msgpack:"min_input_bytes" toml:"min_input_bytes" json:"min_input_bytes"`
	MaxInputBytes int `msgpack:"max_input_bytes" toml:"max_input_bytes" json:"max_input_bytes"`

	ReliabilityThreshold float64            `msgpack:"reliability_threshold" toml:"reliability_threshold" json:"reliability_threshold"`
	ReliabilityMargin    float64            `msgpack:"reliability_margin" toml:"reliability_margin" json:"reliability_margin"`
	ReliabilityOverrides map[string]float64 `msgpack:"reliability_overrides,omitempty" toml:"reliability_overrides" json:"reliability_overrides,omitempty"`
}

// DefaultTuning holds the stock span and input limits
func DefaultTuning() Tuning {
	return Tuning{
		MinSpanBytes:         4,
		MaxSpanBytes:         4096,
		MinInputBytes:        0,
		MaxInputBytes:        1000,
		ReliabilityThreshold: 0.7,
		ReliabilityMargin:    0.1,
	}
}

// Threshold returns the reliability threshold for lang
func (t Tuning) Threshold(lang string) float64 {
	if v, ok := t.ReliabilityOverrides[lang]; ok {
		return v
	}
	return t.ReliabilityThreshold
}

// Validate checks limits and thresholds are in range
func (t Tuning) Validate() error {
	if t.MinSpanBytes < 0 || t.MaxSpanBytes < 0 || t.MinInputBytes < 0 || t.MaxInputBytes < 0 {
		return fmt.Errorf("model: negative byte limit in tuning")
	}
	if t.MaxInputBytes > 0 && t.MinInputBytes > t.MaxInputBytes {
		return fmt.Errorf("model: min_input_bytes %d exceeds max_input_bytes %d", t.MinInputBytes, t.MaxInputBytes)
	}
	if !unit(t.ReliabilityThreshold) || !unit(t.ReliabilityMargin) {
		return fmt.Errorf("model: reliability threshold and margin must be in [0,1]")
	}
	for lang, v := range t.ReliabilityOverrides {
		if !unit(v) {
			return fmt.Errorf("model: reliability override for %q is %v, want [0,1]", lang, v)
		}
	}
	return nil
}

func unit(v float64) bool { return v >= 0 && v <= 1 }

// Model is immutable once validated and shared by every caller
type Model struct {
	Schema      uint16 `msgpack:"schema"`
	HashVersion int    `msgpack:"hash_version"`
	ID          string `msgpack:"id"`
	Name        string `msgpack:"name"`

	// Classes are language codes in logit order. Exactly one is Unknown
	Classes []string `msgpack:"classes"`

	// Features[i] reads Tables[i]
	Features []features.Spec       `msgpack:"features"`
	Tables   []nnet.EmbeddingTable `msgpack:"tables"`
	Layers   []nnet.Layer          `msgpack:"layers"`

	Tuning Tuning `msgpack:"tuning"`
}

// Validate checks versions, the class table and every tensor dimension
func (m *Model) Validate() error {
	if m.Schema != Schema {
		return fmt.Errorf("model: schema %d, this build reads %d", m.Schema, Schema)
	}
	if m.HashVersion != features.HashVersion {
		return fmt.Errorf("model: hash version %d, this build hashes with %d", m.HashVersion, features.HashVersion)
	}
	if len(m.Classes) < 2 {
		return fmt.Errorf("model: need at least one language besides %q", Unknown)
	}
	seen := make(map[string]struct{}, len(m.Classes))
	for _, c := range m.Classes {
		if c == "" {
			return fmt.Errorf("model: empty class code")
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("model: duplicate class %q", c)
		}
		seen[c] = struct{}{}
	}
	if _, ok := seen[Unknown]; !ok {
		return fmt.Errorf("model: class table lacks %q", Unknown)
	}

	if len(m.Features) != len(m.Tables) {
		return fmt.Errorf("model: %d feature specs for %d tables", len(m.Features), len(m.Tables))
	}
	if _, err := features.NewExtractor(m.Features); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	for i, s := range m.Features {
		if s.Buckets != m.Tables[i].Rows {
			return fmt.Errorf("model: feature %s has %d buckets, table %d has %d rows", s, s.Buckets, i, m.Tables[i].Rows)
		}
	}

	net, err := nnet.New(m.Tables, m.Layers)
	if err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if net.Outputs() != len(m.Classes) {
		return fmt.Errorf("model: network emits %d logits for %d classes", net.Outputs(), len(m.Classes))
	}
	return m.Tuning.Validate()
}

// Network builds the inference network over the model's tensors. The model
// must be valid
func (m *Model) Network() (*nnet.Network, error) {
	return nnet.New(m.Tables, m.Layers)
}

// Extractor builds the feature extractor for the model's specs
func (m *Model) Extractor() (*features.Extractor, error) {
	return features.NewExtractor(m.Features)
}

// UnknownIndex is the logit index of Unknown, or -1
func (m *Model) UnknownIndex() int {
	return slices.Index(m.Classes, Unknown)
}

// Languages returns the class table without Unknown
func (m *Model) Languages() []string {
	out := make([]string, 0, len(m.Classes))
	for _, c := range m.Classes {
		if c != Unknown {
			out = append(out, c)
		}
	}
	return out
}

// DeriveID returns a name-based UUID over the encoded model with its ID
// cleared, so identical builds get identical IDs
func DeriveID(m *Model) (string, error) {
	c := *m
	c.ID = ""
	body, err := encodeBody(&c)
	if err != nil {
		return "", err
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, body).String(), nil
}
