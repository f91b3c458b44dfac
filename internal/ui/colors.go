package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// styles is the stylesheet for the clone flow. ok and warn track the
// summary's enrolled/failed counters; detail dims per-user progress lines.
var styles = theme{
	title:  bold("#7D56F4").MarginBottom(1),
	ok:     bold("#04B575"),
	err:    bold("#FF0000"),
	warn:   fg("#FFA500"),
	detail: fg("#626262").Italic(true),
}

type theme struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	detail lipgloss.Style
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func bold(color string) lipgloss.Style {
	return fg(color).Bold(true)
}
