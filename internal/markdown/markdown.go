// Package markdown renders untrusted comment bodies as sanitized HTML.
// Everything that displays a comment body as HTML goes through Render; the
// rest of the program treats its output as safe and does not re-check it.
package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

var renderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		// Do not allow raw HTML passthrough (avoid XSS).
		// Note: we intentionally do NOT use html.WithUnsafe().
		ghtml.WithHardWraps(),
	),
)

var policy = bluemonday.UGCPolicy()

// Render converts markdown source into sanitized HTML. It is a pure function
// of src: identical input yields identical output.
func Render(src string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var b bytes.Buffer
	if err := renderer.Convert([]byte(src), &b); err != nil {
		return "<pre>" + html.EscapeString(src) + "</pre>"
	}
	// goldmark already refuses raw HTML; bluemonday catches anything that
	// still slips through an extension.
	return policy.Sanitize(b.String())
}
