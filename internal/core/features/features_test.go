package features

import (
	"math"
	"reflect"
	"testing"

	"langid/internal/core/script"
)

func TestHash_Golden(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"", 0xb93d6a4a},
		{"a", 0x59f316c0},
		{"ab", 0xa2873466},
		{"abc", 0x4fac543d},
		{"abcd", 0x87a1b830},
		{"^th", 0x6d628a6d},
		{"hello world", 0xbaa20ad2},
		{"影響", 0x4e8b2bd0},
	}
	for _, tc := range tests {
		if got := Hash(tc.in); got != tc.want {
			t.Fatalf("Hash(%q) = %#x, want %#x", tc.in, got, tc.want)
		}
	}
}

func collect(tokens []string, order int) []string {
	var out []string
	EachNGram(tokens, order, func(g string) { out = append(out, g) })
	return out
}

func TestEachNGram(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		order  int
		want   []string
	}{
		{"unigrams", []string{"héj"}, 1, []string{"h", "é", "j"}},
		{"bigrams padded", []string{"ab"}, 2, []string{"^a", "ab", "b$"}},
		{"trigrams", []string{"the"}, 3, []string{"^th", "the", "he$"}},
		{"short token whole", []string{"a"}, 4, []string{"^a$"}},
		{"exact length", []string{"ab"}, 4, []string{"^ab$"}},
		{"multi token", []string{"a", "b"}, 2, []string{"^a", "a$", "^b", "b$"}},
		{"empty tokens skipped", []string{"", "x"}, 1, []string{"x"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := collect(tc.tokens, tc.order); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("EachNGram(%q,%d) = %q, want %q", tc.tokens, tc.order, got, tc.want)
			}
		})
	}
}

func testSpecs() []Spec {
	return []Spec{
		{Kind: KindNGram, Order: 1, Buckets: 64},
		{Kind: KindNGram, Order: 2, Buckets: 128},
		{Kind: KindNGram, Order: 3, Buckets: 256},
		{Kind: KindScript, Buckets: script.Count},
	}
}

func TestNewExtractor_Validation(t *testing.T) {
	bad := [][]Spec{
		nil,
		{{Kind: KindNGram, Order: 0, Buckets: 10}},
		{{Kind: KindNGram, Order: MaxOrder + 1, Buckets: 10}},
		{{Kind: KindNGram, Order: 2, Buckets: 0}},
		{{Kind: KindScript, Buckets: 3}},
		{{Kind: "word", Buckets: 10}},
	}
	for i, specs := range bad {
		if _, err := NewExtractor(specs); err == nil {
			t.Fatalf("case %d: expected error for %+v", i, specs)
		}
	}
	if _, err := NewExtractor(testSpecs()); err != nil {
		t.Fatalf("valid specs rejected: %v", err)
	}
}

func TestExtract_WeightsAndOrder(t *testing.T) {
	ex, err := NewExtractor(testSpecs())
	if err != nil {
		t.Fatal(err)
	}
	groups := ex.Extract([]byte("The quick brown fox, the lazy dog!"), script.Latin)
	if len(groups) != 4 {
		t.Fatalf("got %d groups", len(groups))
	}
	for i, g := range groups {
		if g.Spec != testSpecs()[i] {
			t.Fatalf("group %d spec = %+v", i, g.Spec)
		}
		var sum float64
		prev := -1
		for _, f := range g.Features {
			if int(f.Bucket) <= prev {
				t.Fatalf("group %d not sorted by bucket", i)
			}
			if int(f.Bucket) >= g.Spec.Buckets {
				t.Fatalf("group %d bucket %d out of range", i, f.Bucket)
			}
			prev = int(f.Bucket)
			sum += float64(f.Weight)
		}
		if math.Abs(sum-1) > 1e-5 {
			t.Fatalf("group %d weights sum to %v", i, sum)
		}
	}
	sg := groups[3].Features
	if len(sg) != 1 || sg[0].Bucket != uint32(script.Latin) || sg[0].Weight != 1 {
		t.Fatalf("script group = %+v", sg)
	}
}

func TestExtract_CaseInsensitiveAndDeterministic(t *testing.T) {
	ex, _ := NewExtractor(testSpecs())
	a := ex.Extract([]byte("Bonjour le Monde"), script.Latin)
	b := ex.Extract([]byte("BONJOUR LE MONDE"), script.Latin)
	c := ex.Extract([]byte("Bonjour le Monde"), script.Latin)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("case changed features")
	}
	if !reflect.DeepEqual(a, c) {
		t.Fatalf("extraction not deterministic")
	}
}

func TestExtract_NoTokens(t *testing.T) {
	ex, _ := NewExtractor(testSpecs())
	groups := ex.Extract([]byte("123 ... !!"), script.Common)
	for _, g := range groups[:3] {
		if len(g.Features) != 0 {
			t.Fatalf("expected empty ngram group, got %+v", g)
		}
	}
}

func TestNGramCounts(t *testing.T) {
	counts := NGramCounts([]string{"aa"}, 1, 1000)
	if counts[Hash("a")%1000] != 2 || len(counts) != 1 {
		t.Fatalf("counts = %v", counts)
	}
}
