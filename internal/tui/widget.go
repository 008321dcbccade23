package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"pagetalk/internal/thread"
	"pagetalk/internal/validate"
)

type focusArea int

const (
	focusNickname focusArea = iota
	focusEmail
	focusWebsite
	focusComposer
	focusThread
)

func (f focusArea) next() focusArea {
	if f == focusThread {
		return focusNickname
	}
	return f + 1
}

func (f focusArea) prev() focusArea {
	if f == focusNickname {
		return focusThread
	}
	return f - 1
}

// widgetModel is the bubbletea shell around a thread.Thread. All engine
// mutations happen on the update goroutine; the network runs inside tea.Cmd
// closures, so the model only ever suspends at the network boundary.
type widgetModel struct {
	thread *thread.Thread

	width  int
	height int

	focus    focusArea
	selected int // thread row index, 0 = newest
	scroll   int // first visible thread row

	nickname textinput.Model
	email    textinput.Model
	website  textinput.Model
	composer textarea.Model

	quitting bool
}

func newWidgetModel(t *thread.Thread) widgetModel {
	applyColorProfile()

	rec := t.Identity()

	nickname := textinput.New()
	nickname.Placeholder = "Nickname"
	nickname.CharLimit = validate.MaxNicknameLen
	nickname.Width = 16
	nickname.SetValue(rec.Nickname)
	nickname.Focus()

	email := textinput.New()
	email.Placeholder = "Email (optional)"
	email.CharLimit = 64
	email.Width = 22
	email.SetValue(rec.Email)

	website := textinput.New()
	website.Placeholder = "Website (optional)"
	website.CharLimit = 128
	website.Width = 24
	website.SetValue(rec.Website)

	composer := textarea.New()
	composer.Placeholder = "Write a comment (markdown)…"
	composer.CharLimit = 0
	composer.SetWidth(72)
	composer.SetHeight(5)
	composer.ShowLineNumbers = false

	return widgetModel{
		thread:   t,
		focus:    focusNickname,
		nickname: nickname,
		email:    email,
		website:  website,
		composer: composer,
	}
}

func (m widgetModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCmd())
}
