// Package web provides embedded static assets for the inventory pages,
// served at /static/.
package web

import "embed"

// StaticFS embeds the web/static/ directory tree.
//
//go:embed static
var StaticFS embed.FS
