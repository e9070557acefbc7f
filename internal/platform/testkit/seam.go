package testkit

import (
	"sync"
	"testing"
)

// seamMu serializes tests that touch process-wide state: function seams,
// the module registry and the root logger
var seamMu sync.Mutex

// Swap replaces *target for the duration of the test and restores it after
func Swap[T any](tb testing.TB, target *T, replacement T) {
	tb.Helper()
	orig := *target
	*target = replacement
	tb.Cleanup(func() { *target = orig })
}

// Serial runs the rest of the test under the process-wide seam lock
func Serial(tb testing.TB) {
	tb.Helper()
	seamMu.Lock()
	tb.Cleanup(seamMu.Unlock)
}
