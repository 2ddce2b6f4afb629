// Package templates embeds the HTML views rendered by service.RenderService.
package templates

import "embed"

// Files holds the shared layout, partials, every page and the export sheet.
//
//go:embed layout.html partials.html export.html pages/*.html
var Files embed.FS
