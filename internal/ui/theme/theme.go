// Package theme holds the terminal palette used by CLI reports.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary = lipgloss.Color("#2563EB") // Hanji Blue
	Accent  = lipgloss.Color("#F97316") // Orange
	Success = lipgloss.Color("#22C55E") // Green
	Warning = lipgloss.Color("#EAB308") // Amber
	Error   = lipgloss.Color("#F43F5E") // Rose
	TextDim = lipgloss.Color("#94A3B8") // Slate
	Border  = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Heading = lipgloss.NewStyle().
		Bold(true).
		Underline(true)

	Dim = lipgloss.NewStyle().
		Foreground(TextDim)

	Rule = lipgloss.NewStyle().
		Foreground(Border)
)

// States
var (
	OK = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Failed = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Score bar segments
var (
	BarWeak   = lipgloss.NewStyle().Foreground(Error)
	BarMid    = lipgloss.NewStyle().Foreground(Warning)
	BarStrong = lipgloss.NewStyle().Foreground(Success)
	BarEmpty  = lipgloss.NewStyle().Foreground(Border)
)
