package cli

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	accentColor  = lipgloss.Color("#5FAFAF") // Teal accent
	subtleColor  = lipgloss.Color("#666666") // Gray for secondary text
	holidayColor = lipgloss.Color("#D7AF5F") // Amber for holiday names
	warnColor    = lipgloss.Color("#AF5F5F") // Muted terracotta for suggestions

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	labelStyle = lipgloss.NewStyle().
			Bold(true)

	subtleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)

	holidayStyle = lipgloss.NewStyle().
			Foreground(holidayColor)

	warnStyle = lipgloss.NewStyle().
			Foreground(warnColor)

	// summaryBox frames the totals under the block list.
	summaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtleColor).
			Padding(0, 1)
)
