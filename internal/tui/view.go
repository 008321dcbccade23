package tui

import (
	"strings"
	"time"

	xansi "github.com/charmbracelet/x/ansi"

	"pagetalk/internal/thread"
)

func (m widgetModel) View() string {
	if m.quitting {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	height := m.height
	if height <= 0 {
		height = 24
	}

	var sections []string
	sections = append(sections,
		titleStyle.Render("PageTalk")+"  "+labelStyle.Render(m.thread.PageID()))
	sections = append(sections, m.formView())
	sections = append(sections, m.messageLine())
	sections = append(sections, m.helpLine())

	head := strings.Join(sections, "\n")
	headLines := strings.Count(head, "\n") + 1

	body := m.threadView(width, height-headLines-1)
	return head + "\n" + body
}

func (m widgetModel) formView() string {
	fields := []string{m.nickname.View(), m.email.View(), m.website.View()}
	return strings.Join(fields, "  ") + "\n" + m.composer.View()
}

func (m widgetModel) messageLine() string {
	if m.thread.Submitting() {
		return messageStyle.Render("Submitting...")
	}
	text, isErr := m.thread.Message()
	if text == "" {
		return ""
	}
	if isErr {
		return errorStyle.Render(text)
	}
	return messageStyle.Render(text)
}

func (m widgetModel) helpLine() string {
	switch m.focus {
	case focusThread:
		return helpStyle.Render("j/k move · r reply · tab form · q quit")
	default:
		return helpStyle.Render("tab next field · ctrl+s send · esc thread · ctrl+c quit")
	}
}

// threadView renders comments starting at the scroll row and cuts the result
// to the remaining terminal height.
func (m widgetModel) threadView(width, height int) string {
	if height < 1 {
		return ""
	}
	comments := m.thread.Comments()
	if len(comments) == 0 {
		switch m.thread.Phase() {
		case thread.PhaseLoaded:
			return labelStyle.Render("No comments yet. Be the first to say something.")
		default:
			return ""
		}
	}

	var lines []string
	for i := m.scroll; i < len(comments); i++ {
		c := comments[i]
		marker := "  "
		head := authorStyle.Render(c.Nickname)
		if m.focus == focusThread && i == m.selected {
			marker = selectedStyle.Render("› ")
			head = selectedStyle.Render(c.Nickname)
		}
		lines = append(lines, fixedWidthLine(marker+head+"  "+labelStyle.Render(fmtDate(c.CreatedAt)), width))

		body := renderCommentMarkdown(c.Content, maxInt(20, width-6))
		for _, ln := range strings.Split(body, "\n") {
			lines = append(lines, "    "+ln)
		}
		lines = append(lines, "")
		if len(lines) > height {
			break
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// fmtDate mirrors the compact slash date the original widget displayed.
func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006/01/02")
}

func fixedWidthLine(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) > width {
		// Ensure any open ANSI styling is terminated.
		return xansi.Cut(s, 0, width) + "\x1b[0m"
	}
	return s
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
