// Package rank turns per-span logits into a ranked, reliability-qualified
// list of languages for the whole document
package rank

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"langid/internal/core/model"
)

// SpanResult is the class distribution of one classified span
type SpanResult struct {
	Start int
	End   int
	Probs []float64 // one entry per class, sums to 1
}

// Bytes is the span's weight in aggregation
func (r SpanResult) Bytes() int { return r.End - r.Start }

// Best returns the arg-max class; ties go to the lower index
func (r SpanResult) Best() (int, float64) {
	best, p := -1, math.Inf(-1)
	for i, v := range r.Probs {
		if v > p {
			best, p = i, v
		}
	}
	return best, p
}

// Range is a byte range that voted for a language and the span's probability
type Range struct {
	Start       int     `json:"start"`
	End         int     `json:"end"`
	Probability float64 `json:"probability"`
}

// Candidate is one language in a Ranking
type Candidate struct {
	Index       int // class index in the model
	Language    string
	Probability float64
	Proportion  float64
	Reliable    bool
	Ranges      []Range
}

// Ranking holds candidates in descending probability, ties by class index
type Ranking struct {
	Candidates      []Candidate
	ClassifiedBytes int
}

// Softmax converts logits into probabilities in float64 via log-sum-exp
func Softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}
	out := make([]float64, len(logits))
	for i, v := range logits {
		out[i] = float64(v)
	}
	lse := floats.LogSumExp(out)
	for i := range out {
		out[i] = math.Exp(out[i] - lse)
	}
	return out
}

// Aggregate lets every span vote for its arg-max class with its probability.
// A language's probability is the byte-weighted average of its winning spans'
// probabilities; its proportion is its share of classified bytes. Spans won
// by "und" dilute proportions but never rank
func Aggregate(classes []string, results []SpanResult, tuning model.Tuning) Ranking {
	var rk Ranking
	mass := make([]float64, len(classes))
	bytes := make([]int, len(classes))
	ranges := make([][]Range, len(classes))

	for _, r := range results {
		if len(r.Probs) != len(classes) || r.Bytes() <= 0 {
			continue
		}
		idx, p := r.Best()
		if idx < 0 {
			continue
		}
		n := r.Bytes()
		rk.ClassifiedBytes += n
		mass[idx] += p * float64(n)
		bytes[idx] += n
		ranges[idx] = append(ranges[idx], Range{Start: r.Start, End: r.End, Probability: p})
	}
	if rk.ClassifiedBytes == 0 {
		return rk
	}

	total := float64(rk.ClassifiedBytes)
	for i, lang := range classes {
		if lang == model.Unknown || bytes[i] == 0 || mass[i] <= 0 {
			continue
		}
		rk.Candidates = append(rk.Candidates, Candidate{
			Index:       i,
			Language:    lang,
			Probability: mass[i] / float64(bytes[i]),
			Proportion:  float64(bytes[i]) / total,
			Ranges:      ranges[i],
		})
	}
	slices.SortStableFunc(rk.Candidates, func(a, b Candidate) int {
		switch {
		case a.Probability > b.Probability:
			return -1
		case a.Probability < b.Probability:
			return 1
		}
		return a.Index - b.Index
	})

	for i := range rk.Candidates {
		c := &rk.Candidates[i]
		runnerUp := 0.0
		for j, o := range rk.Candidates {
			if j != i && o.Probability > runnerUp {
				runnerUp = o.Probability
			}
		}
		c.Reliable = c.Probability >= tuning.Threshold(c.Language) &&
			c.Probability-runnerUp >= tuning.ReliabilityMargin
	}
	return rk
}

// Top returns up to k candidates; k <= 0 returns none
func (rk Ranking) Top(k int) []Candidate {
	if k <= 0 || len(rk.Candidates) == 0 {
		return nil
	}
	return rk.Candidates[:min(k, len(rk.Candidates))]
}

// Best returns the top candidate, if any language has mass
func (rk Ranking) Best() (Candidate, bool) {
	if len(rk.Candidates) == 0 {
		return Candidate{}, false
	}
	return rk.Candidates[0], true
}
