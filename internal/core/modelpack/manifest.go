// Package modelpack compiles a model artifact from per-language seed corpora.
// Each embedding row holds smoothed per-language log lifts of its bucket, the
// hidden layer sums them under a shifted ReLU, and the output layer scales the
// sums and adds the bias of the unknown class. No gradient training is involved
package modelpack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"langid/internal/core/features"
	"langid/internal/core/model"
	"langid/internal/core/script"
)

// Params shape the closed-form network
type Params struct {
	// Smoothing mixes each language's bucket distribution with uniform, in (0,1]
	Smoothing float64 `toml:"smoothing"`
	// Scale multiplies every language score into a logit
	Scale float64 `toml:"scale"`
	// Shift keeps hidden activations above the ReLU floor
	Shift float64 `toml:"shift"`
	// UnknownLift is the score a language must beat to outrank "und"
	UnknownLift float64 `toml:"unknown_lift"`
	// ScriptPenalty is subtracted when a span's script is not one of the language's
	ScriptPenalty float64 `toml:"script_penalty"`
}

// DefaultParams are used for keys a manifest leaves out
func DefaultParams() Params {
	return Params{Smoothing: 0.05, Scale: 2, Shift: 32, UnknownLift: -16, ScriptPenalty: 8}
}

// FeatureSpec is a feature group plus its weight in the hidden layer
type FeatureSpec struct {
	Kind    features.Kind `toml:"kind"`
	Order   int           `toml:"order"`
	Buckets int           `toml:"buckets"`
	Weight  float64       `toml:"weight"`
}

// Spec converts to the extractor spec; script groups default to one bucket per class
func (f FeatureSpec) Spec() features.Spec {
	s := features.Spec{Kind: f.Kind, Order: f.Order, Buckets: f.Buckets}
	if s.Kind == features.KindScript && s.Buckets == 0 {
		s.Buckets = script.Count
	}
	return s
}

// Language names one class and where its corpus lives
type Language struct {
	Code    string   `toml:"code"`
	Scripts []string `toml:"scripts"`
	Corpus  string   `toml:"corpus"`
}

// Manifest describes a model build
type Manifest struct {
	Name      string        `toml:"name"`
	Compile   Params        `toml:"compile"`
	Tuning    model.Tuning  `toml:"tuning"`
	Features  []FeatureSpec `toml:"features"`
	Languages []Language    `toml:"languages"`
}

// ParseManifest decodes TOML over the defaults and rejects unknown keys
func ParseManifest(data []byte) (*Manifest, error) {
	m := Manifest{Compile: DefaultParams(), Tuning: model.DefaultTuning()}
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, fmt.Errorf("modelpack: parse manifest: %w", err)
	}
	if un := md.Undecoded(); len(un) > 0 {
		keys := make([]string, len(un))
		for i, k := range un {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("modelpack: unknown manifest keys: %s", strings.Join(keys, ", "))
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads a manifest file. Corpus paths resolve against its directory
func LoadManifest(path string) (*Manifest, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("modelpack: read manifest: %w", err)
	}
	m, err := ParseManifest(b)
	if err != nil {
		return nil, "", err
	}
	return m, filepath.Dir(path), nil
}

// Validate checks the manifest is complete and consistent
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("modelpack: manifest needs a name")
	}

	p := m.Compile
	if p.Smoothing <= 0 || p.Smoothing > 1 {
		return fmt.Errorf("modelpack: smoothing %v out of (0,1]", p.Smoothing)
	}
	if p.Scale <= 0 || p.Shift <= 0 || p.ScriptPenalty < 0 {
		return fmt.Errorf("modelpack: scale and shift must be positive, script_penalty non-negative")
	}
	if p.UnknownLift <= -p.Shift {
		return fmt.Errorf("modelpack: unknown_lift %v must stay above -shift %v", p.UnknownLift, -p.Shift)
	}

	if len(m.Features) == 0 {
		return fmt.Errorf("modelpack: manifest has no features")
	}
	hasNGram := false
	for i, f := range m.Features {
		if err := f.Spec().Validate(); err != nil {
			return fmt.Errorf("modelpack: feature %d: %w", i, err)
		}
		if f.Weight <= 0 {
			return fmt.Errorf("modelpack: feature %d needs a positive weight", i)
		}
		hasNGram = hasNGram || f.Kind == features.KindNGram
	}
	if !hasNGram {
		return fmt.Errorf("modelpack: manifest needs at least one ngram feature")
	}

	if len(m.Languages) == 0 {
		return fmt.Errorf("modelpack: manifest has no languages")
	}
	seen := make(map[string]struct{}, len(m.Languages))
	for _, l := range m.Languages {
		if l.Code == "" || l.Code == model.Unknown {
			return fmt.Errorf("modelpack: invalid language code %q", l.Code)
		}
		if _, dup := seen[l.Code]; dup {
			return fmt.Errorf("modelpack: duplicate language %q", l.Code)
		}
		seen[l.Code] = struct{}{}
		if l.Corpus == "" {
			return fmt.Errorf("modelpack: language %q has no corpus", l.Code)
		}
		if len(l.Scripts) == 0 {
			return fmt.Errorf("modelpack: language %q lists no scripts", l.Code)
		}
		for _, s := range l.Scripts {
			if id, ok := script.Parse(s); !ok || id == script.Common || id == script.Other {
				return fmt.Errorf("modelpack: language %q has unusable script %q", l.Code, s)
			}
		}
	}
	for lang := range m.Tuning.ReliabilityOverrides {
		if _, ok := seen[lang]; !ok {
			return fmt.Errorf("modelpack: reliability override for unknown language %q", lang)
		}
	}
	return m.Tuning.Validate()
}

func (m *Manifest) specs() []features.Spec {
	out := make([]features.Spec, len(m.Features))
	for i, f := range m.Features {
		out[i] = f.Spec()
	}
	return out
}
