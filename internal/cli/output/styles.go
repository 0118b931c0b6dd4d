package output

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Key     lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds styles for a terminal, or plain styles when color is off.
func NewStyles(color bool) Styles {
	renderer := lipgloss.NewRenderer(io.Discard)
	if color {
		renderer.SetColorProfile(termenv.ANSI256)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return Styles{
		Header1: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Header2: renderer.NewStyle().Bold(true),
		Key:     renderer.NewStyle().Foreground(lipgloss.Color("245")),
		Success: renderer.NewStyle().Foreground(lipgloss.Color("42")),
		Warning: renderer.NewStyle().Foreground(lipgloss.Color("214")),
		Error:   renderer.NewStyle().Foreground(lipgloss.Color("196")),
		Muted:   renderer.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
