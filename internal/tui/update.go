package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"pagetalk/internal/leancloud"
	"pagetalk/internal/model"
	"pagetalk/internal/thread"
)

type commentsLoadedMsg struct {
	comments []model.Comment
	err      error
}

type commentSavedMsg struct {
	draft model.Comment
	res   leancloud.InsertResult
	err   error
}

// loadCmd reserves the load transition and returns the command that runs the
// query off the update goroutine. Nil when the thread already left Idle.
func (m widgetModel) loadCmd() tea.Cmd {
	if !m.thread.BeginLoad() {
		return nil
	}
	t := m.thread
	return func() tea.Msg {
		// No timeout by design: a request either resolves or the widget
		// stays in its current state until the user quits.
		comments, err := t.Fetch(context.Background())
		return commentsLoadedMsg{comments: comments, err: err}
	}
}

// submitCmd validates the form and reserves the in-flight submission slot.
// Nil when validation failed (the message line explains) or a submission is
// already running — pressing submit twice cannot produce two inserts.
func (m widgetModel) submitCmd() tea.Cmd {
	draft, ok := m.thread.BeginSubmit(thread.Form{
		Nickname: m.nickname.Value(),
		Email:    m.email.Value(),
		Website:  m.website.Value(),
		Content:  m.composer.Value(),
	})
	if !ok {
		return nil
	}
	t := m.thread
	return func() tea.Msg {
		res, err := t.Push(context.Background(), draft)
		return commentSavedMsg{draft: draft, res: res, err: err}
	}
}

func (m widgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 4
		if w < 24 {
			w = 24
		}
		if w > 96 {
			w = 96
		}
		m.composer.SetWidth(w)
		return m, nil

	case commentsLoadedMsg:
		m.thread.ApplyComments(msg.comments, msg.err)
		return m, nil

	case commentSavedMsg:
		if m.thread.ApplySubmitResult(msg.draft, msg.res, msg.err) {
			m.composer.Reset()
			m.selected = 0
			m.scroll = 0
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			return m.setFocus(m.focus.next())
		case "shift+tab":
			return m.setFocus(m.focus.prev())
		case "ctrl+s":
			return m, m.submitCmd()
		}

		if m.focus == focusThread {
			return m.updateThreadKeys(msg)
		}
		if msg.String() == "esc" {
			return m.setFocus(focusThread)
		}
	}

	return m.updateFocused(msg)
}

func (m widgetModel) updateThreadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "j", "down":
		if m.selected+1 < m.thread.Len() {
			m.selected++
		}
		m.ensureSelectedVisible()
		return m, nil
	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
		m.ensureSelectedVisible()
		return m, nil
	case "g":
		m.selected = 0
		m.scroll = 0
		return m, nil
	case "r":
		if c, ok := m.selectedComment(); ok {
			// SetValue leaves the cursor at the end of the quoted draft.
			m.composer.SetValue(thread.Quote(c))
			return m.setFocus(focusComposer)
		}
		return m, nil
	}
	return m, nil
}

// updateFocused routes everything else (typed runes, cursor blinks, paste) to
// the component that has focus.
func (m widgetModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusNickname:
		m.nickname, cmd = m.nickname.Update(msg)
	case focusEmail:
		m.email, cmd = m.email.Update(msg)
	case focusWebsite:
		m.website, cmd = m.website.Update(msg)
	case focusComposer:
		m.composer, cmd = m.composer.Update(msg)
	}
	return m, cmd
}

func (m widgetModel) setFocus(f focusArea) (tea.Model, tea.Cmd) {
	m.nickname.Blur()
	m.email.Blur()
	m.website.Blur()
	m.composer.Blur()
	m.focus = f

	var cmd tea.Cmd
	switch f {
	case focusNickname:
		cmd = m.nickname.Focus()
	case focusEmail:
		cmd = m.email.Focus()
	case focusWebsite:
		cmd = m.website.Focus()
	case focusComposer:
		cmd = m.composer.Focus()
	}
	return m, cmd
}

func (m widgetModel) selectedComment() (model.Comment, bool) {
	comments := m.thread.Comments()
	if m.selected < 0 || m.selected >= len(comments) {
		return model.Comment{}, false
	}
	return comments[m.selected], true
}

// ensureSelectedVisible keeps the selection within a small window of rendered
// comments. Row heights vary with markdown bodies, so this tracks comment
// indexes rather than terminal lines.
func (m *widgetModel) ensureSelectedVisible() {
	if m.selected < m.scroll {
		m.scroll = m.selected
	}
	if m.selected > m.scroll+3 {
		m.scroll = m.selected - 3
	}
}
