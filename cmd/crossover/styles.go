package main

import "github.com/charmbracelet/lipgloss"

// Style definitions.
var (
	// HeaderStyle for the dashboard title.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))

	// WarningStyle for runs that succeeded with caveats.
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	// LabelStyle for form labels.
	LabelStyle = lipgloss.NewStyle().Bold(true)
)
