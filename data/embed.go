// Package data provides the embedded default room templates.
package data

import (
	"embed"
	"io/fs"
)

// cellsFS embeds all room template files at build time.
//
//go:embed cells/*.json
var cellsFS embed.FS

// Cells returns the room templates rooted at the template directory.
func Cells() fs.FS {
	sub, err := fs.Sub(cellsFS, "cells")
	if err != nil {
		panic(err)
	}
	return sub
}
