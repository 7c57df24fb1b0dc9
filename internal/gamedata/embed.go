// Package gamedata provides embedded game data and utilities for loading it.
package gamedata

import (
	"embed"
	"io/fs"
)

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS

// FS returns the embedded enemy and item definitions.
func FS() fs.FS {
	return dataFS
}
