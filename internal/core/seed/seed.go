// Package seed embeds the manifest and corpora the default model is compiled from
package seed

import (
	"embed"
	"io/fs"
)

// ManifestPath is the manifest's path inside FS
const ManifestPath = "manifest.toml"

//go:embed manifest.toml corpora/*.txt
var files embed.FS

// FS returns the embedded seed tree. Corpus paths in the manifest are relative to it
func FS() fs.FS { return files }

// Manifest returns the raw embedded manifest
func Manifest() []byte {
	b, err := files.ReadFile(ManifestPath)
	if err != nil {
		// embedded at build time; absence is a build defect
		panic(err)
	}
	return b
}
