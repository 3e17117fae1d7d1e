// Package ui provides terminal styling for glabtree console output.
// Uses the Ayu color theme with adaptive light/dark mode support.
//
// Styling applies to the interactive console only; the session transcript
// file always receives plain text.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Ayu theme color palette
var (
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6", // ayu light bright blue
		Dark:  "#59c2ff", // ayu dark bright blue
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99", // ayu light muted
		Dark:  "#6c7680", // ayu dark muted
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // ayu light bright yellow
		Dark:  "#ffb454", // ayu dark bright yellow
	}
)

var (
	// AccentStyle for emphasized labels - bold with accent color
	AccentStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	// CountStyle for summary counts
	CountStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	// WarnStyle for non-fatal notices
	WarnStyle = lipgloss.NewStyle().Foreground(ColorWarn)
)

// Interactive reports whether stdout is a terminal. Piped output skips
// styling so the mirrored transcript stays byte-identical to the file.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Accent styles s as an emphasized label when stdout is interactive.
func Accent(s string) string {
	if !Interactive() {
		return s
	}
	return AccentStyle.Render(s)
}

// Count styles s as a summary count when stdout is interactive.
func Count(s string) string {
	if !Interactive() {
		return s
	}
	return CountStyle.Render(s)
}

// Warn styles s as a non-fatal notice when stdout is interactive.
func Warn(s string) string {
	if !Interactive() {
		return s
	}
	return WarnStyle.Render(s)
}
