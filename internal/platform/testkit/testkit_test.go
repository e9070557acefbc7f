package testkit

import (
	"errors"
	"os"
	"testing"
)

func TestMustPanic_ReturnsValue(t *testing.T) {
	t.Parallel()

	got := MustPanic(t, func() { panic("model: schema 9") })
	if got != "model: schema 9" {
		t.Fatalf("recovered %v", got)
	}
	MustPanicWith(t, "bad artifact", func() { panic(errors.New("langid: bad artifact")) })
}

func TestMustNotPanic(t *testing.T) {
	t.Parallel()

	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	t.Parallel()

	MustContain(t, `{"level":"info","model_id":"m-1","message":"ready"}`, `"model_id":"m-1"`, `"ready"`)
}

func TestUnsetenv(t *testing.T) {
	const key = "LANGID_TESTKIT_UNSET"
	t.Setenv(key, "seeded")

	t.Run("cleared", func(t *testing.T) {
		Unsetenv(t, key)
		if _, ok := os.LookupEnv(key); ok {
			t.Fatalf("%s still set", key)
		}
	})

	if got := os.Getenv(key); got != "seeded" {
		t.Fatalf("%s = %q after cleanup", key, got)
	}

	const fresh = "LANGID_TESTKIT_FRESH"
	t.Run("set by code under test", func(t *testing.T) {
		Unsetenv(t, fresh)
		_ = os.Setenv(fresh, "leaked")
	})
	if _, ok := os.LookupEnv(fresh); ok {
		t.Fatalf("%s survived cleanup", fresh)
	}
}
