package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	colorPrimary = lipgloss.Color("12")
	colorSuccess = lipgloss.Color("10")
	colorMuted   = lipgloss.Color("8")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	labelStyle  = lipgloss.NewStyle().Foreground(colorMuted).Width(10)
	valueStyle  = lipgloss.NewStyle()
	activeStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)
)

// plainOutput disables styling when stdout is not a terminal.
func plainOutput() bool {
	return !term.IsTerminal(int(os.Stdout.Fd()))
}
