package cli

import "github.com/charmbracelet/lipgloss"

var (
	// headerStyle styles the plan summary heading.
	headerStyle = lipgloss.NewStyle().Bold(true)

	// countStyle highlights cue counts in summaries.
	countStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)
