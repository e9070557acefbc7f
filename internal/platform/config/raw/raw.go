// Package raw reads environment variables before the logger exists. It must
// not import the logger or config packages
package raw

import (
	"os"
	"strconv"
	"strings"
)

// Conf reads variables under a fixed name prefix such as "LOG_"
type Conf struct{ prefix string }

// New returns a Conf without a prefix
func New() Conf { return Conf{} }

// Prefix returns a Conf whose names are further prefixed by p
func (c Conf) Prefix(p string) Conf { return Conf{prefix: c.prefix + p} }

// lookup returns the trimmed value and whether it was non-empty
func (c Conf) lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(c.prefix + key))
	return v, v != ""
}

// Get returns the value of key or def when unset or blank
func (c Conf) Get(key, def string) string {
	if v, ok := c.lookup(key); ok {
		return v
	}
	return def
}

// GetBool treats 1, true, yes and on (any case) as true and other values as false
func (c Conf) GetBool(key string, def bool) bool {
	v, ok := c.lookup(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// GetInt returns a non-negative decimal value, or def when unset or unparsable
func (c Conf) GetInt(key string, def int) int {
	v, ok := c.lookup(key)
	if !ok || strings.HasPrefix(v, "+") {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
