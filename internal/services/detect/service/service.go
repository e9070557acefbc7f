// Package service implements the detect service over a shared identifier
package service

import (
	"context"
	"slices"
	"sync/atomic"

	"langid/internal/core/langhint"
	"langid/internal/core/langid"
	perr "langid/internal/platform/errors"
	"langid/internal/platform/logger"
	str "langid/internal/platform/strings"
	"langid/internal/services/detect/domain"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// Config for the detect service
type Config struct {
	// CacheSize is the number of cached rankings; 0 disables the cache
	CacheSize int
	// BatchWorkers bounds batch fan-out
	BatchWorkers int
	// MaxBatch bounds the texts in one batch
	MaxBatch int
}

// entry is a cached full ranking. n guards against hash collisions between texts of different length
type entry struct {
	n     int
	preds []langid.Prediction
}

// Service implements domain.DetectorPort and domain.StatsPort
type Service struct {
	plain  *langid.Identifier
	markup *langid.Identifier
	langs  map[string]struct{}
	nLangs int

	cfg    Config
	cache  *lru.Cache[uint64, entry]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// New constructs the service over id. A markup-aware twin shares id's model and window
func New(id *langid.Identifier, cfg Config) (*Service, error) {
	if id == nil {
		return nil, perr.InvalidArgf("detect: nil identifier")
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = 4
	}
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = 64
	}
	m := id.Model()
	markup, err := langid.NewWithOptions(m, langid.Options{
		MinInputBytes: id.MinInputBytes(),
		MaxInputBytes: id.MaxInputBytes(),
		Markup:        true,
	})
	if err != nil {
		return nil, err
	}

	s := &Service{plain: id, markup: markup, cfg: cfg, langs: map[string]struct{}{}}
	for _, l := range m.Languages() {
		s.langs[l] = struct{}{}
	}
	s.nLangs = len(s.langs)
	if cfg.CacheSize > 0 {
		c, err := lru.New[uint64, entry](cfg.CacheSize)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "detect: result cache")
		}
		s.cache = c
	}
	logger.Named("detect").Debug().
		Str("model_id", m.ID).
		Int("languages", s.nLangs).
		Int("cache_size", cfg.CacheSize).
		Int("batch_workers", cfg.BatchWorkers).
		Msg("detect service ready")
	return s, nil
}

// Language returns the most likely language of in.Text
func (s *Service) Language(ctx context.Context, in domain.LanguageInput) (domain.LanguageOutput, error) {
	if err := ctx.Err(); err != nil {
		return domain.LanguageOutput{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "detect: canceled")
	}
	out := domain.LanguageOutput{Hint: langhint.Profile(in.Text)}
	if preds := s.ranking(in.Text, in.Markup); len(preds) > 0 {
		best := preds[0]
		best.Ranges = slices.Clone(best.Ranges)
		out.Prediction = &best
	}
	return out, nil
}

// Frequent returns up to in.Top languages, optionally restricted to in.Only
func (s *Service) Frequent(ctx context.Context, in domain.FrequentInput) (domain.FrequentOutput, error) {
	if err := ctx.Err(); err != nil {
		return domain.FrequentOutput{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "detect: canceled")
	}
	only, err := s.only(in.Only)
	if err != nil {
		return domain.FrequentOutput{}, err
	}
	return domain.FrequentOutput{
		Languages: pick(s.ranking(in.Text, in.Markup), top(in.Top), only),
		Hint:      langhint.Profile(in.Text),
	}, nil
}

// Batch runs Frequent over every text with bounded parallelism. Items keep input order
func (s *Service) Batch(ctx context.Context, in domain.BatchInput) (domain.BatchOutput, error) {
	if len(in.Texts) > s.cfg.MaxBatch {
		return domain.BatchOutput{}, perr.WithField(perr.TooLargef("batch has %d texts, limit is %d", len(in.Texts), s.cfg.MaxBatch), "texts")
	}
	only, err := s.only(in.Only)
	if err != nil {
		return domain.BatchOutput{}, err
	}
	k := top(in.Top)

	items := make([]domain.BatchItem, len(in.Texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchWorkers)
	for i, text := range in.Texts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i] = domain.BatchItem{Index: i, Languages: pick(s.ranking(text, in.Markup), k, only)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.BatchOutput{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "detect: batch canceled")
	}
	return domain.BatchOutput{Items: items}, nil
}

// Spans returns the diagnostic per-span view of in.Text
func (s *Service) Spans(ctx context.Context, in domain.SpansInput) (domain.SpansOutput, error) {
	if err := ctx.Err(); err != nil {
		return domain.SpansOutput{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "detect: canceled")
	}
	return domain.SpansOutput{Spans: s.identifier(in.Markup).Spans(in.Text)}, nil
}

// CacheStats implements domain.StatsPort
func (s *Service) CacheStats() domain.CacheStats {
	st := domain.CacheStats{Hits: s.hits.Load(), Misses: s.misses.Load()}
	if s.cache != nil {
		st.Enabled = true
		st.Size = s.cache.Len()
		st.Capacity = s.cfg.CacheSize
	}
	return st
}

func (s *Service) identifier(markup bool) *langid.Identifier {
	if markup {
		return s.markup
	}
	return s.plain
}

// ranking returns every language found in text. The slice is shared with the
// cache and must not be modified
func (s *Service) ranking(text string, markup bool) []langid.Prediction {
	if s.cache == nil {
		return s.identifier(markup).GetFrequentLanguages(text, s.nLangs)
	}
	key := cacheKey(text, markup)
	if e, ok := s.cache.Get(key); ok && e.n == len(text) {
		s.hits.Add(1)
		return e.preds
	}
	s.misses.Add(1)
	preds := s.identifier(markup).GetFrequentLanguages(text, s.nLangs)
	s.cache.Add(key, entry{n: len(text), preds: preds})
	return preds
}

func cacheKey(text string, markup bool) uint64 {
	d := xxhash.New()
	if markup {
		_, _ = d.Write([]byte{1})
	} else {
		_, _ = d.Write([]byte{0})
	}
	_, _ = d.WriteString(text)
	return d.Sum64()
}

// only validates a language filter against the model; nil means no filter
func (s *Service) only(codes []string) (map[string]struct{}, error) {
	codes = str.Dedupe(codes)
	if len(codes) == 0 {
		return nil, nil
	}
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if _, ok := s.langs[c]; !ok {
			return nil, perr.WithField(perr.InvalidArgf("language %q is not in the model", c), "only")
		}
		set[c] = struct{}{}
	}
	return set, nil
}

func top(k int) int {
	switch {
	case k <= 0:
		return domain.DefaultTop
	case k > domain.MaxTop:
		return domain.MaxTop
	}
	return k
}

// pick copies up to k predictions that pass the filter
func pick(preds []langid.Prediction, k int, only map[string]struct{}) []langid.Prediction {
	out := make([]langid.Prediction, 0, min(k, len(preds)))
	for _, p := range preds {
		if len(out) == k {
			break
		}
		if only != nil {
			if _, ok := only[p.Language]; !ok {
				continue
			}
		}
		p.Ranges = slices.Clone(p.Ranges)
		out = append(out, p)
	}
	return out
}
