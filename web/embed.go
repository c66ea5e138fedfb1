// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

// Package web holds the embedded admin-facing page templates.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates
var templatesFS embed.FS

// Templates parses the embedded page templates. html/template escapes all
// interpolated values by context, so user-supplied text is safe to render
// even if a future write path skips the input sanitizer.
func Templates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.html")
}
