package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"pagetalk/internal/leancloud"
	"pagetalk/internal/markdown"
	"pagetalk/internal/store"
	"pagetalk/internal/thread"
)

// Run opens the interactive comment widget for one page and blocks until the
// user quits.
func Run(page string, client *leancloud.Client, local store.Local) error {
	t := thread.New(page, client, local, markdown.Render)
	m := newWidgetModel(t)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
