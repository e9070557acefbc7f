// Package normalize folds span text into the canonical form features are hashed from
// Pipeline order
// 1 Sanitize controls and invalid bytes to spaces
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Remove format chars (ZWJ ZWNJ FEFF etc)
// 5 Width fold fullwidth and halfwidth forms
// Combining marks are kept; they carry letter identity in Indic and Arabic scripts
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Folder is concurrency safe when used with the pool below
type Folder struct{}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		// order matters and mirrors the documented pipeline
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),                       // unicode case folding
			runes.Remove(runes.In(unicode.Cf)), // strip format chars
			width.Fold,                         // fullwidth and halfwidth forms to canonical width
		)
	},
}

// New constructs a Folder
func New() *Folder { return &Folder{} }

// Fold returns the folded form of s following the pipeline described above
func (f *Folder) Fold(s string) string {
	if s == "" {
		return ""
	}

	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		// the chain only fails on invalid input, which Sanitize already removed
		return s
	}
	return ns
}

// IsTokenRune reports whether r belongs inside a token: letters and the
// marks that attach to them
func IsTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.In(r, unicode.Mn, unicode.Mc)
}

// Tokens folds s and splits it on every rune that is not a letter or mark.
// Digits and punctuation never reach the feature extractor
func (f *Folder) Tokens(s string) []string {
	folded := f.Fold(s)
	if folded == "" {
		return nil
	}
	return strings.FieldsFunc(folded, func(r rune) bool { return !IsTokenRune(r) })
}
