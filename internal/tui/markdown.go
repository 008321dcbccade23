package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width + style. Creating a renderer with
	// WithAutoStyle can trigger terminal capability/background queries that
	// may block on some terminals, so we pick the style ourselves and reuse
	// renderers across comments.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// renderCommentMarkdown renders one comment body for the thread listing,
// without block margins (comment threads read badly with "airy" spacing).
func renderCommentMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		cfg := styles.DarkStyleConfig
		if style == "light" {
			cfg = styles.LightStyleConfig
		}
		zero := uint(0)
		cfg.Document.Margin = &zero
		cfg.Paragraph.Margin = &zero
		cfg.BlockQuote.Margin = &zero
		cfg.List.Margin = &zero
		cfg.CodeBlock.Margin = &zero

		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(cfg),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	mdRendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyle() string {
	// Explicit override for debugging / accessibility.
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PAGETALK_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	// Heuristic: COLORFGBG is often "fg;bg" (e.g. "15;0" => dark bg).
	// Prefer this over terminal queries to avoid blocking.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if bg >= 7 {
				return "light"
			}
			if bg >= 0 {
				return "dark"
			}
		}
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
