package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("180"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("180")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	metCriterionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42"))

	unmetCriterionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("203"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(0, 2)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("180")).
			Padding(1, 3)
)

// strengthStyles colors the 0-4 strength labels from weakest to strongest.
var strengthStyles = [5]lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("148")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
}

func checklistLine(met bool, text string) string {
	if met {
		return metCriterionStyle.Render("✓ " + text)
	}
	return unmetCriterionStyle.Render("• " + text)
}
