package main

import (
	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	// HelpStyle for hints printed to stderr.
	HelpStyle = lipgloss.NewStyle().Faint(true)
)
