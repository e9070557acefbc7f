// Package config reads typed settings from environment variables under a
// name prefix such as "LANGID_" or "CORE_API_"
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"langid/internal/platform/logger"
)

// Conf is a prefixed view over the environment
type Conf struct{ prefix string }

// New returns a Conf without a prefix
func New() Conf { return Conf{} }

// Prefix returns a child view, e.g. cfg.Prefix("LANGID_")
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

func (c Conf) key(k string) string { return c.prefix + k }

func (c Conf) value(key string) string { return strings.TrimSpace(os.Getenv(c.key(key))) }

// may parses key with parse, warning and falling back to def on bad input
func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s := c.value(key)
	if s == "" {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Err(err).Str("key", c.key(key)).Str("value", s).
			Interface("default", def).Msg("invalid config value; using default")
		return def
	}
	return v
}

// must parses key with parse and panics when it is unset or bad
func must[T any](c Conf, key string, parse func(string) (T, error)) T {
	s := c.value(key)
	if s == "" {
		logger.Get().Panic().Str("key", c.key(key)).Msg("missing required env")
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Panic().Err(err).Str("key", c.key(key)).Str("value", s).Msg("invalid required env")
	}
	return v
}

func asString(s string) (string, error) { return s, nil }

// MustString returns the trimmed value of key and panics when it is unset
func (c Conf) MustString(key string) string { return must(c, key, asString) }

// MustInt returns key as an int and panics when it is unset or not a number
func (c Conf) MustInt(key string) int { return must(c, key, strconv.Atoi) }

// Require panics on the first key that is unset or blank
func (c Conf) Require(keys ...string) {
	for _, k := range keys {
		_ = c.MustString(k)
	}
}

// MayString returns the trimmed value or def
func (c Conf) MayString(key, def string) string { return may(c, key, def, asString) }

// MayInt returns key as an int or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayFloat64 returns key as a float64 or def
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns key as a bool (strconv.ParseBool forms) or def
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration returns key as a time.Duration or def
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayCSV splits a comma separated value, dropping blanks; def when nothing remains
func (c Conf) MayCSV(key string, def []string) []string {
	var out []string
	for _, p := range strings.Split(c.value(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// MayEnum returns the value when it matches one of allowed (any case), def when unset,
// and panics otherwise
func (c Conf) MayEnum(key, def string, allowed ...string) string {
	v := c.MayString(key, def)
	if v == "" || slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, v) }) {
		return v
	}
	logger.Get().Panic().Str("key", c.key(key)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}

// MayBytes returns a positive byte count such as 512, 4k or 2M (binary units), or def
func (c Conf) MayBytes(key string, def int64) int64 { return may(c, key, def, parseBytes) }

func parseBytes(s string) (int64, error) {
	s = strings.ToLower(s)
	shift := 0
	switch {
	case strings.HasSuffix(s, "k"):
		shift, s = 10, s[:len(s)-1]
	case strings.HasSuffix(s, "m"):
		shift, s = 20, s[:len(s)-1]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("byte size %d must be positive", n)
	}
	return n << shift, nil
}
