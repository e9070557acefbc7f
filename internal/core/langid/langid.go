// Package langid identifies the language of text: it scans script spans,
// extracts hashed n-gram features, runs the embedding network over each span
// and ranks the languages that won the most text
package langid

import (
	"context"
	"sync"
	"unicode/utf8"

	"langid/internal/core/features"
	"langid/internal/core/model"
	"langid/internal/core/modelpack"
	"langid/internal/core/nnet"
	"langid/internal/core/rank"
	"langid/internal/core/script"
	perr "langid/internal/platform/errors"
)

// Range is a byte range of the input that voted for a language
type Range struct {
	Start       int     `json:"start"`
	End         int     `json:"end"`
	Probability float64 `json:"probability"`
}

// Prediction is one language found in the text
type Prediction struct {
	Language    string  `json:"language"`
	Probability float64 `json:"probability"`
	IsReliable  bool    `json:"is_reliable"`
	Proportion  float64 `json:"proportion"`
	Ranges      []Range `json:"ranges,omitempty"`
}

// SpanReport is the diagnostic view of one scanned span
type SpanReport struct {
	Start       int     `json:"start"`
	End         int     `json:"end"`
	Script      string  `json:"script"`
	Reason      string  `json:"reason"`
	Language    string  `json:"language,omitempty"`
	Probability float64 `json:"probability,omitempty"`
	Text        string  `json:"text"`
}

// Options override the model's input window; zero values keep the model's tuning
type Options struct {
	MinInputBytes int
	MaxInputBytes int
	// Markup skips HTML tags and entities
	Markup bool
}

// Identifier is immutable and safe for concurrent use
type Identifier struct {
	model *model.Model
	net   *nnet.Network
	ex    *features.Extractor
	scan  script.Options

	minInput int
	maxInput int
	markup   bool
}

// New builds an identifier over m using the model's tuning
func New(m *model.Model) (*Identifier, error) {
	return NewWithOptions(m, Options{})
}

// NewWithOptions builds an identifier over m. An invalid model is refused
func NewWithOptions(m *model.Model, opts Options) (*Identifier, error) {
	if m == nil {
		return nil, perr.InvalidArgf("langid: nil model")
	}
	if err := m.Validate(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "langid: invalid model")
	}
	net, err := m.Network()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "langid: build network")
	}
	ex, err := m.Extractor()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "langid: build extractor")
	}
	if opts.MinInputBytes < 0 || opts.MaxInputBytes < 0 {
		return nil, perr.InvalidArgf("langid: negative input window")
	}

	id := &Identifier{
		model: m,
		net:   net,
		ex:    ex,
		scan: script.Options{
			MinSpanBytes: m.Tuning.MinSpanBytes,
			MaxSpanBytes: m.Tuning.MaxSpanBytes,
		},
		minInput: m.Tuning.MinInputBytes,
		maxInput: m.Tuning.MaxInputBytes,
		markup:   opts.Markup,
	}
	if opts.MinInputBytes > 0 {
		id.minInput = opts.MinInputBytes
	}
	if opts.MaxInputBytes > 0 {
		id.maxInput = opts.MaxInputBytes
	}
	if id.maxInput > 0 && id.minInput > id.maxInput {
		return nil, perr.InvalidArgf("langid: min input %d exceeds max input %d", id.minInput, id.maxInput)
	}
	return id, nil
}

// Model returns the model the identifier was built from
func (id *Identifier) Model() *model.Model { return id.model }

// MinInputBytes is the input length below which no prediction is made
func (id *Identifier) MinInputBytes() int { return id.minInput }

// MaxInputBytes is the input prefix length that is classified; 0 means unlimited
func (id *Identifier) MaxInputBytes() int { return id.maxInput }

// GetLanguage returns the most likely language, or false when the text has
// no classifiable letters
func (id *Identifier) GetLanguage(text string) (Prediction, bool) {
	c, ok := id.rank(text).Best()
	if !ok {
		return Prediction{}, false
	}
	return toPrediction(c), true
}

// GetFrequentLanguages returns up to numLangs languages by descending
// probability. numLangs <= 0 returns an empty slice
func (id *Identifier) GetFrequentLanguages(text string, numLangs int) []Prediction {
	if numLangs <= 0 {
		return []Prediction{}
	}
	top := id.rank(text).Top(numLangs)
	out := make([]Prediction, len(top))
	for i, c := range top {
		out[i] = toPrediction(c)
	}
	return out
}

// Spans reports every span of the windowed text with its verdict
func (id *Identifier) Spans(text string) []SpanReport {
	src := id.window(text)
	if src == nil {
		return []SpanReport{}
	}
	scanned := id.prepare(src)
	out := []SpanReport{}
	for sp := range script.NewScanner(scanned, id.scan).Spans() {
		rep := SpanReport{
			Start:  sp.Start,
			End:    sp.End,
			Script: sp.Script.String(),
			Reason: sp.Reason.String(),
			Text:   string(sp.Bytes(src)),
		}
		if r, ok := id.classify(scanned, sp); ok {
			idx, p := r.Best()
			rep.Language = id.model.Classes[idx]
			rep.Probability = p
		}
		out = append(out, rep)
	}
	return out
}

// window applies the input limits; nil means no prediction
func (id *Identifier) window(text string) []byte {
	if text == "" || len(text) < id.minInput {
		return nil
	}
	if id.maxInput > 0 && len(text) > id.maxInput {
		cut := id.maxInput
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	if text == "" {
		return nil
	}
	return []byte(text)
}

// prepare blanks markup when enabled. Offsets into the result index src
func (id *Identifier) prepare(src []byte) []byte {
	if id.markup {
		return script.MaskMarkup(src)
	}
	return src
}

func (id *Identifier) classify(src []byte, sp script.Span) (rank.SpanResult, bool) {
	if !sp.Valid() {
		return rank.SpanResult{}, false
	}
	logits, err := id.net.Infer(id.ex.Extract(sp.Bytes(src), sp.Script))
	if err != nil {
		return rank.SpanResult{}, false
	}
	return rank.SpanResult{Start: sp.Start, End: sp.End, Probs: rank.Softmax(logits)}, true
}

func (id *Identifier) rank(text string) rank.Ranking {
	src := id.window(text)
	if src == nil {
		return rank.Ranking{}
	}
	src = id.prepare(src)
	var results []rank.SpanResult
	for sp := range script.NewScanner(src, id.scan).Spans() {
		if r, ok := id.classify(src, sp); ok {
			results = append(results, r)
		}
	}
	return rank.Aggregate(id.model.Classes, results, id.model.Tuning)
}

func toPrediction(c rank.Candidate) Prediction {
	p := Prediction{
		Language:    c.Language,
		Probability: c.Probability,
		IsReliable:  c.Reliable,
		Proportion:  c.Proportion,
	}
	if len(c.Ranges) > 0 {
		p.Ranges = make([]Range, len(c.Ranges))
		for i, r := range c.Ranges {
			p.Ranges[i] = Range{Start: r.Start, End: r.End, Probability: r.Probability}
		}
	}
	return p
}

var (
	defaultOnce sync.Once
	defaultID   *Identifier
	defaultErr  error
)

// Default returns the identifier over the model compiled from the embedded
// seed corpora. It is built once per process
func Default() (*Identifier, error) {
	defaultOnce.Do(func() {
		m, err := modelpack.CompileEmbedded(context.Background())
		if err != nil {
			defaultErr = perr.Wrap(err, perr.ErrorCodeModel, "langid: compile embedded model")
			return
		}
		defaultID, defaultErr = New(m)
	})
	return defaultID, defaultErr
}

// Open builds an identifier over the model artifact at path, or over the
// embedded seed model when path is empty
func Open(path string, opts Options) (*Identifier, error) {
	if path == "" {
		def, err := Default()
		if err != nil {
			return nil, err
		}
		if opts == (Options{}) {
			return def, nil
		}
		return NewWithOptions(def.model, opts)
	}
	m, err := model.Load(path)
	if err != nil {
		return nil, perr.WithOp(err, "langid.Open")
	}
	return NewWithOptions(m, opts)
}

// MustDefault is Default for callers that cannot proceed without it
func MustDefault() *Identifier {
	id, err := Default()
	if err != nil {
		panic(err)
	}
	return id
}

// GetLanguage runs the default identifier
func GetLanguage(text string) (Prediction, bool) {
	return MustDefault().GetLanguage(text)
}

// GetFrequentLanguages runs the default identifier
func GetFrequentLanguages(text string, numLangs int) []Prediction {
	return MustDefault().GetFrequentLanguages(text, numLangs)
}
