package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/venkatramks/legal-ai-frontend/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	userStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	riskStyles = map[string]lipgloss.Style{
		model.RiskLow:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		model.RiskMedium: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		model.RiskHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
)

// renderRisk colors a risk level for terminal output.
func renderRisk(risk string) string {
	if style, ok := riskStyles[risk]; ok {
		return style.Render(risk)
	}
	return risk
}
