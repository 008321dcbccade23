package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	colorAccent    = lipgloss.AdaptiveColor{Light: "26", Dark: "39"}
	colorError     = lipgloss.AdaptiveColor{Light: "124", Dark: "203"}
	colorMuted     = lipgloss.AdaptiveColor{Light: "243", Dark: "246"}
	colorSurfaceFg = lipgloss.AdaptiveColor{Light: "235", Dark: "252"}
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	labelStyle    = lipgloss.NewStyle().Foreground(colorMuted)
	messageStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	helpStyle     = lipgloss.NewStyle().Foreground(colorMuted).Faint(true)
	authorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)

// applyColorProfile pins lipgloss to termenv's detection once at startup.
// Note: termenv.EnvColorProfile respects CLICOLOR/CLICOLOR_FORCE, which is
// useful for forcing color in tests and CI.
func applyColorProfile() {
	if os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}
