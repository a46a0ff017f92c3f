// Package render turns validation events and dispatch results into terminal
// output. Two renderers share the same inputs: a lipgloss-styled human
// renderer and a line-delimited JSON renderer for scripting. Both consume
// the event bus; the engines never know which one is listening.
package render

import "github.com/charmbracelet/lipgloss"

var (
	// Colors meet WCAG AA contrast on dark surfaces.
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	okColor      = lipgloss.Color("#10B981") // Green
	warnColor    = lipgloss.Color("#F59E0B") // Amber
	errColor     = lipgloss.Color("#F87171") // Red
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	okStyle    = lipgloss.NewStyle().Foreground(okColor)
	warnStyle  = lipgloss.NewStyle().Foreground(warnColor)
	errStyle   = lipgloss.NewStyle().Foreground(errColor)
	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)
	boldStyle  = lipgloss.NewStyle().Bold(true)
)
