package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	tableStyle = lipgloss.NewStyle().
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1B5E20")).
			Padding(0, 1).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9E9E9E"))

	chipsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD54F")).
			Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Foreground(lipgloss.Color("#FAFAFA"))

	redCardStyle = cardStyle.
			Foreground(lipgloss.Color("#EF5350"))

	hiddenCardStyle = cardStyle.
			Foreground(lipgloss.Color("#5C6BC0"))

	activeHandStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#FFD54F")).
			PaddingLeft(1)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD54F")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF5350"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF176")).
			Italic(true)

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#388E3C")).
			Padding(0, 1)

	logStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#757575"))
)

// hasColor reports whether the terminal supports color output at all.
// Monochrome terminals still get plain card glyphs.
func hasColor() bool {
	return termenv.ColorProfile() != termenv.Ascii
}
