// Package color names the terminal colors cinelist prints with.
package color

import "github.com/charmbracelet/lipgloss"

// ANSI colors, so output follows the terminal theme.
var (
	Red      = lipgloss.Color("1")
	Green    = lipgloss.Color("2")
	Yellow   = lipgloss.Color("3")
	Blue     = lipgloss.Color("4")
	Purple   = lipgloss.Color("5")
	Cyan     = lipgloss.Color("6")
	HiRed    = lipgloss.Color("9")
	HiPurple = lipgloss.Color("13")
)

// Roles shared by the commands.
var (
	Added   = Green
	Removed = Red
	Warning = HiRed
	Key     = Purple
	Value   = Yellow
)
