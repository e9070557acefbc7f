// Package features turns span text into hashed, weighted feature groups
package features

import (
	"fmt"
	"slices"

	"langid/internal/core/normalize"
	"langid/internal/core/script"
)

// Kind names a feature family
type Kind string

const (
	// KindNGram is a hashed character n-gram of a fixed order
	KindNGram Kind = "ngram"
	// KindScript is the span's script class as a single feature
	KindScript Kind = "script"
)

// MaxOrder bounds n-gram order
const MaxOrder = 5

// Spec describes one feature group. Its position in the model decides which
// embedding table it reads
type Spec struct {
	Kind    Kind `msgpack:"kind" toml:"kind" json:"kind"`
	Order   int  `msgpack:"order,omitempty" toml:"order" json:"order,omitempty"`
	Buckets int  `msgpack:"buckets" toml:"buckets" json:"buckets"`
}

// Validate checks the spec is well formed
func (s Spec) Validate() error {
	switch s.Kind {
	case KindNGram:
		if s.Order < 1 || s.Order > MaxOrder {
			return fmt.Errorf("features: ngram order %d out of range [1,%d]", s.Order, MaxOrder)
		}
		if s.Buckets <= 0 {
			return fmt.Errorf("features: ngram order %d needs a positive bucket count", s.Order)
		}
	case KindScript:
		if s.Buckets < script.Count {
			return fmt.Errorf("features: script group needs at least %d buckets, got %d", script.Count, s.Buckets)
		}
	default:
		return fmt.Errorf("features: unknown kind %q", s.Kind)
	}
	return nil
}

func (s Spec) String() string {
	if s.Kind == KindNGram {
		return fmt.Sprintf("ngram%d/%d", s.Order, s.Buckets)
	}
	return fmt.Sprintf("%s/%d", s.Kind, s.Buckets)
}

// Feature is one active bucket and its weight within its group
type Feature struct {
	Bucket uint32
	Weight float32
}

// Group holds the features of one spec, sorted by bucket. Weights sum to 1
// unless the group is empty
type Group struct {
	Spec     Spec
	Features []Feature
}

// Extractor is immutable and safe for concurrent use
type Extractor struct {
	specs  []Spec
	folder *normalize.Folder
}

// NewExtractor validates specs and returns an extractor emitting groups in spec order
func NewExtractor(specs []Spec) (*Extractor, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("features: no feature specs")
	}
	for i, s := range specs {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("features: spec %d: %w", i, err)
		}
	}
	return &Extractor{specs: slices.Clone(specs), folder: normalize.New()}, nil
}

// Specs returns a copy of the extractor's specs
func (e *Extractor) Specs() []Spec { return slices.Clone(e.specs) }

// Tokens folds text and splits it into letter tokens
func (e *Extractor) Tokens(text []byte) []string {
	return e.folder.Tokens(string(text))
}

// Extract returns one group per spec for the span text written in sc
func (e *Extractor) Extract(text []byte, sc script.ID) []Group {
	return e.ExtractTokens(e.Tokens(text), sc)
}

// ExtractTokens is Extract over pre-tokenized text
func (e *Extractor) ExtractTokens(tokens []string, sc script.ID) []Group {
	groups := make([]Group, len(e.specs))
	for i, s := range e.specs {
		groups[i].Spec = s
		switch s.Kind {
		case KindScript:
			groups[i].Features = []Feature{{Bucket: uint32(sc), Weight: 1}}
		case KindNGram:
			groups[i].Features = weigh(NGramCounts(tokens, s.Order, s.Buckets))
		}
	}
	return groups
}

// NGramCounts counts hashed n-grams of the given order over tokens
func NGramCounts(tokens []string, order, buckets int) map[uint32]int {
	counts := make(map[uint32]int)
	EachNGram(tokens, order, func(g string) {
		counts[Hash(g)%uint32(buckets)]++
	})
	return counts
}

// EachNGram calls fn for every n-gram of the given order. Unigrams are the
// code points of each token. Higher orders slide over the token wrapped in
// ^ and $; a wrapped token shorter than the order is one n-gram
func EachNGram(tokens []string, order int, fn func(string)) {
	if order < 1 {
		return
	}
	var buf []rune
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if order == 1 {
			for _, r := range tok {
				fn(string(r))
			}
			continue
		}
		buf = append(buf[:0], '^')
		buf = append(buf, []rune(tok)...)
		buf = append(buf, '$')
		if len(buf) <= order {
			fn(string(buf))
			continue
		}
		for i := 0; i+order <= len(buf); i++ {
			fn(string(buf[i : i+order]))
		}
	}
}

func weigh(counts map[uint32]int) []Feature {
	if len(counts) == 0 {
		return nil
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	out := make([]Feature, 0, len(counts))
	for b, c := range counts {
		out = append(out, Feature{Bucket: b, Weight: float32(c) / float32(total)})
	}
	slices.SortFunc(out, func(a, b Feature) int {
		switch {
		case a.Bucket < b.Bucket:
			return -1
		case a.Bucket > b.Bucket:
			return 1
		}
		return 0
	})
	return out
}
