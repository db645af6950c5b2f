package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = newStylesheet("#FF0000", "#04B575", "#FF5F87", "#FFA500", "#626262")

// stylesheet holds the named [lipgloss.Style] values the views render with.
type stylesheet struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	prompt lipgloss.Style
}

func newStylesheet(brand, ok, bad, warn, muted string) stylesheet {
	return stylesheet{
		title:  bold(brand).MarginBottom(1),
		ok:     bold(ok),
		err:    bold(bad),
		warn:   fg(warn),
		help:   fg(muted).Italic(true),
		prompt: bold(brand),
	}
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func bold(color string) lipgloss.Style {
	return fg(color).Bold(true)
}
