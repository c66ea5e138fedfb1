// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

// Package sanitize strips markup from user-supplied text before it is
// persisted. Rendering escapes again, so stored values are plain text.
package sanitize

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// stripPolicy removes every HTML element. Contents of <script> and <style>
// elements are dropped entirely rather than left behind as text.
var stripPolicy = bluemonday.StrictPolicy()

// Strip returns s with all markup tags removed. The result is unescaped back
// to plain text: the policy serializes "&" as "&amp;" and similar, which is
// not wanted in stored JSON. Escaping happens at render time instead.
func Strip(s string) string {
	return html.UnescapeString(stripPolicy.Sanitize(s))
}
