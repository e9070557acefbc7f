// Package testkit provides testing helpers shared across packages
package testkit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MustPanic asserts that fn panics and returns the recovered value
func MustPanic(tb testing.TB, fn func()) (recovered any) {
	tb.Helper()
	defer func() {
		recovered = recover()
		if recovered == nil {
			tb.Fatalf("expected panic, got none")
		}
	}()
	fn()
	return nil
}

// MustPanicWith asserts that fn panics with a value whose text contains want
func MustPanicWith(tb testing.TB, want string, fn func()) {
	tb.Helper()
	got := fmt.Sprint(MustPanic(tb, fn))
	if !strings.Contains(got, want) {
		tb.Fatalf("panic %q does not contain %q", got, want)
	}
}

// MustNotPanic asserts that fn does not panic
func MustNotPanic(tb testing.TB, fn func()) {
	tb.Helper()
	defer func() {
		if r := recover(); r != nil {
			tb.Fatalf("unexpected panic: %v", r)
		}
	}()
	fn()
}

// MustContain asserts that haystack contains every needle. On failure the
// haystack is written to a temp file so long log output stays readable
func MustContain(tb testing.TB, haystack string, needles ...string) {
	tb.Helper()
	var missing []string
	for _, n := range needles {
		if !strings.Contains(haystack, n) {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return
	}
	path := filepath.Join(tb.TempDir(), "haystack.txt")
	_ = os.WriteFile(path, []byte(haystack), 0o600)
	tb.Fatalf("output is missing %q\n\nfull output written to %s", missing, path)
}

// Unsetenv clears keys for the duration of the test. Afterwards each key is
// restored to its earlier value, or unset again if code under test set it
func Unsetenv(tb testing.TB, keys ...string) {
	tb.Helper()
	for _, k := range keys {
		prev, had := os.LookupEnv(k)
		if err := os.Unsetenv(k); err != nil {
			tb.Fatalf("unsetenv %s: %v", k, err)
		}
		tb.Cleanup(func() {
			if had {
				_ = os.Setenv(k, prev)
				return
			}
			_ = os.Unsetenv(k)
		})
	}
}
