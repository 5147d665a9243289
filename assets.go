// Package jobadmin provides the embedded console assets.
package jobadmin

import "embed"

// In dev mode the console reads templates and static files from disk instead.

//go:embed all:frontend/static
var StaticFS embed.FS

//go:embed all:frontend/templates
var TemplateFS embed.FS
