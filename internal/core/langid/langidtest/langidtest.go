// Package langidtest hands tests in other packages a ready identifier built
// from the embedded seed model
package langidtest

import (
	"testing"

	"langid/internal/core/langid"
)

// Identifier returns the process-wide default identifier or fails the test
func Identifier(tb testing.TB) *langid.Identifier {
	tb.Helper()
	id, err := langid.Default()
	if err != nil {
		tb.Fatalf("langidtest: default identifier: %v", err)
	}
	return id
}

// WithOptions returns an identifier over the default model with opts applied
func WithOptions(tb testing.TB, opts langid.Options) *langid.Identifier {
	tb.Helper()
	id, err := langid.NewWithOptions(Identifier(tb).Model(), opts)
	if err != nil {
		tb.Fatalf("langidtest: identifier with options: %v", err)
	}
	return id
}
