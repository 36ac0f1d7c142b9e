package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the embedded static asset tree.
func StaticFS() fs.FS { return mustSub("static") }

// TemplatesFS returns the embedded page template tree.
func TemplatesFS() fs.FS { return mustSub("templates") }

// mustSub panics on a bad subdirectory, which can only mean the embed
// directive and the directory layout disagree at build time.
func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
