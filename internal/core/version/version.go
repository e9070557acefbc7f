// Package version reports the build and the model formats it understands
package version

import (
	"runtime/debug"

	"langid/internal/core/features"
	"langid/internal/core/model"
)

// BuildInfo is served by /meta/version and printed by `langid version`
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	// ModelSchema is the artifact schema this build reads
	ModelSchema uint16 `json:"model_schema"`
	// HashVersion is the feature hashing scheme this build implements
	HashVersion int `json:"hash_version"`
}

// set with -ldflags "-X langid/internal/core/version.version=v0.3.0 -X ...commit=abcd -X ...date=2026-10-19"
var (
	service = "langid-api"
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information. Without ldflags the commit and date
// fall back to the vcs stamp the go tool embeds, when there is one
func Info() BuildInfo {
	bi := BuildInfo{
		Service:     service,
		Version:     version,
		Commit:      commit,
		Date:        date,
		ModelSchema: model.Schema,
		HashVersion: features.HashVersion,
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && bi.Commit == "none":
				bi.Commit = s.Value
			case s.Key == "vcs.time" && bi.Date == "unknown":
				bi.Date = s.Value
			}
		}
	}
	return bi
}
