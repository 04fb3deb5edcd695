// Package web holds the embedded browser assets: html/template sources and
// the static files served under /static.
package web

import "embed"

//go:embed templates
var Templates embed.FS

//go:embed static
var Static embed.FS
