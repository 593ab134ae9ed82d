package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	landingTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	landingSubtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D1D5DB"))

	landingTagline = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF")).
			Align(lipgloss.Center)

	enterButton = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6B7280")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 4)

	audioNotice = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#6B7280")).
			Padding(0, 2)
)

// RenderLanding is the gate shown before the first user gesture.
func RenderLanding(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	pulse := lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80")).Render("●")
	notice := audioNotice.Render(pulse + " AUDIO ENABLED EXPERIENCE")

	rule := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Render("────────────────")

	body := lipgloss.JoinVertical(lipgloss.Center,
		landingTitle.Render("A   I"),
		"",
		landingSubtitle.Render("T H I N K I N G   M O D E"),
		rule,
		"",
		landingTagline.Render("A CONCEPTUAL VISUALIZATION OF ARTIFICIAL INTELLIGENCE\nCOGNITIVE PROCESSES IN REAL-TIME"),
		"",
		"",
		enterButton.Render("ENTER VISUALIZATION"),
		"",
		faintStyle.Render("CLICK OR PRESS ENTER TO INITIALIZE COGNITIVE INTERFACE"),
	)

	top := lipgloss.PlaceHorizontal(width, lipgloss.Center, notice)
	footer := renderFooter(width, "")

	middleHeight := height - lipgloss.Height(top) - lipgloss.Height(footer)
	middle := lipgloss.Place(width, max(middleHeight, 0), lipgloss.Center, lipgloss.Center, body)

	return lipgloss.JoinVertical(lipgloss.Left, top, middle, footer)
}
