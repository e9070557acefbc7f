package modelpack

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"langid/internal/core/features"
	"langid/internal/core/model"
	"langid/internal/core/nnet"
	"langid/internal/core/script"
	"langid/internal/core/seed"
)

// LangStats summarizes one corpus after counting
type LangStats struct {
	Code   string
	Bytes  int
	Tokens int
	// NGrams[i] is the n-gram total of feature i, 0 for script groups
	NGrams []int
}

type corpusCounts struct {
	stats  LangStats
	counts []map[uint32]int
}

// Compile counts every corpus in parallel and builds a validated model
func Compile(ctx context.Context, man *Manifest, fsys fs.FS) (*model.Model, []LangStats, error) {
	if err := man.Validate(); err != nil {
		return nil, nil, err
	}
	ex, err := features.NewExtractor(man.specs())
	if err != nil {
		return nil, nil, fmt.Errorf("modelpack: %w", err)
	}

	counted := make([]corpusCounts, len(man.Languages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, lang := range man.Languages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cc, err := count(fsys, lang, man.specs(), ex)
			if err != nil {
				return err
			}
			counted[i] = cc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	m := build(man, counted)
	id, err := model.DeriveID(m)
	if err != nil {
		return nil, nil, fmt.Errorf("modelpack: derive id: %w", err)
	}
	m.ID = id
	if err := m.Validate(); err != nil {
		return nil, nil, fmt.Errorf("modelpack: compiled model invalid: %w", err)
	}

	stats := make([]LangStats, len(counted))
	for i, cc := range counted {
		stats[i] = cc.stats
	}
	return m, stats, nil
}

// CompileEmbedded builds the model from the embedded seed corpora
func CompileEmbedded(ctx context.Context) (*model.Model, error) {
	man, err := ParseManifest(seed.Manifest())
	if err != nil {
		return nil, err
	}
	m, _, err := Compile(ctx, man, seed.FS())
	return m, err
}

func count(fsys fs.FS, lang Language, specs []features.Spec, ex *features.Extractor) (corpusCounts, error) {
	b, err := fs.ReadFile(fsys, lang.Corpus)
	if err != nil {
		return corpusCounts{}, fmt.Errorf("modelpack: %s corpus: %w", lang.Code, err)
	}
	tokens := ex.Tokens(b)
	if len(tokens) == 0 {
		return corpusCounts{}, fmt.Errorf("modelpack: %s corpus %s has no letters", lang.Code, lang.Corpus)
	}

	cc := corpusCounts{
		stats:  LangStats{Code: lang.Code, Bytes: len(b), Tokens: len(tokens), NGrams: make([]int, len(specs))},
		counts: make([]map[uint32]int, len(specs)),
	}
	for i, s := range specs {
		if s.Kind != features.KindNGram {
			continue
		}
		c := features.NGramCounts(tokens, s.Order, s.Buckets)
		total := 0
		for _, n := range c {
			total += n
		}
		cc.counts[i] = c
		cc.stats.NGrams[i] = total
	}
	return cc, nil
}

// build lays out classes as [und, languages...] and fills every tensor
func build(man *Manifest, counted []corpusCounts) *model.Model {
	p := man.Compile
	specs := man.specs()
	classes := make([]string, 0, len(man.Languages)+1)
	classes = append(classes, model.Unknown)
	for _, l := range man.Languages {
		classes = append(classes, l.Code)
	}
	nc := len(classes)

	tables := make([]nnet.EmbeddingTable, len(specs))
	for k, s := range specs {
		t := nnet.EmbeddingTable{Rows: s.Buckets, Dim: nc, Data: make([]float32, s.Buckets*nc)}
		switch s.Kind {
		case features.KindNGram:
			fillLift(t, k, counted, p.Smoothing)
		case features.KindScript:
			fillScript(t, man.Languages, p.ScriptPenalty)
		}
		tables[k] = t
	}

	// hidden: h_l = relu(shift + sum_k weight_k * e_k[l]); und stays at shift
	in := len(specs) * nc
	hidden := nnet.Layer{
		In:         in,
		Out:        nc,
		Weights:    make([]float32, nc*in),
		Bias:       make([]float32, nc),
		Activation: nnet.ReLU,
	}
	for l := 0; l < nc; l++ {
		hidden.Bias[l] = float32(p.Shift)
		if l == 0 {
			continue
		}
		for k, f := range man.Features {
			hidden.Weights[l*in+k*nc+l] = float32(f.Weight)
		}
	}

	// output: logit_l = scale * h_l; und = scale * (shift + unknown_lift)
	out := nnet.Layer{
		In:         nc,
		Out:        nc,
		Weights:    make([]float32, nc*nc),
		Bias:       make([]float32, nc),
		Activation: nnet.Identity,
	}
	for l := 1; l < nc; l++ {
		out.Weights[l*nc+l] = float32(p.Scale)
	}
	out.Bias[0] = float32(p.Scale * (p.Shift + p.UnknownLift))

	return &model.Model{
		Schema:      model.Schema,
		HashVersion: features.HashVersion,
		Name:        man.Name,
		Classes:     classes,
		Features:    specs,
		Tables:      tables,
		Layers:      []nnet.Layer{hidden, out},
		Tuning:      man.Tuning,
	}
}

// fillLift writes log(B * ((1-s) * c/N + s/B)) for every bucket and language.
// Unseen buckets get log(s); column 0 (und) stays zero
func fillLift(t nnet.EmbeddingTable, k int, counted []corpusCounts, s float64) {
	b := float64(t.Rows)
	floor := float32(math.Log(s))
	for j, cc := range counted {
		col := j + 1
		for row := 0; row < t.Rows; row++ {
			t.Data[row*t.Dim+col] = floor
		}
		n := float64(cc.stats.NGrams[k])
		if n == 0 {
			continue
		}
		for bucket, c := range cc.counts[k] {
			lift := math.Log(b * ((1-s)*float64(c)/n + s/b))
			t.Data[int(bucket)*t.Dim+col] = float32(lift)
		}
	}
}

// fillScript writes 0 where the language uses the script and -penalty elsewhere
func fillScript(t nnet.EmbeddingTable, langs []Language, penalty float64) {
	for j, l := range langs {
		col := j + 1
		uses := make(map[script.ID]bool, len(l.Scripts))
		for _, name := range l.Scripts {
			id, _ := script.Parse(name)
			uses[id] = true
		}
		for row := 0; row < t.Rows; row++ {
			if !uses[script.ID(row)] {
				t.Data[row*t.Dim+col] = float32(-penalty)
			}
		}
	}
}
