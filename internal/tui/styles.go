package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Title style for pane headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4F4FB7")).
			Padding(0, 1)

	// Status style for the status bar
	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595"))

	// Error style for transcript error lines
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	// System style for transcript system markers
	SystemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5A9"))

	// Command style for echoed commands
	CommandStyle = lipgloss.NewStyle().
			Bold(true)

	// Selected file highlight
	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#4F4FB7"))

	// Dirty marker for files with unsaved edits
	DirtyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C"))

	// Outdated marker for files the sandbox has newer versions of
	OutdatedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8BE9FD"))

	// Pane border
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1)
)
