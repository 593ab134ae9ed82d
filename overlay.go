package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	cognitiveState = "Thinking Mode"
	sideColumn     = 30
)

var (
	labelStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#737373")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#CCCCCC")).
			Padding(0, 1)

	connectorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	faintStyle     = lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#888888"))
)

// Readout is one label/value pair handed to the overlay each refresh.
type Readout struct {
	Label string
	Value string
}

var numbers = message.NewPrinter(language.English)

// Readouts formats the six overlay values in display order: model, latent
// dimensions, cognitive state, cycles, exploration time, signature.
func Readouts(modelName string, m MetricsSnapshot) []Readout {
	return []Readout{
		{Label: "MODEL", Value: modelName},
		{Label: "LATENT DIMENSIONS", Value: numbers.Sprintf("%d VECTORS", m.Dimensions)},
		{Label: "COGNITIVE STATE", Value: cognitiveState},
		{Label: "COGNITIVE CYCLES", Value: numbers.Sprintf("%d", m.Cycles)},
		{Label: "EXPLORATION TIME", Value: numbers.Sprintf("%d Minutes", m.Minutes)},
		{Label: "COGNITIVE SIGNATURE", Value: m.Signature},
	}
}

// renderInfoBox draws the grey label chip above a bordered value. Right
// aligned boxes get their connector on the left so it points at the sphere.
func renderInfoBox(r Readout, rightAligned bool, width int) string {
	align := lipgloss.Left
	if rightAligned {
		align = lipgloss.Right
	}

	box := lipgloss.JoinVertical(align,
		labelStyle.Render(r.Label),
		valueStyle.Render(r.Value),
	)

	connector := connectorStyle.Render("───•")
	if rightAligned {
		connector = connectorStyle.Render("•───")
		box = lipgloss.JoinHorizontal(lipgloss.Center, connector, box)
	} else {
		box = lipgloss.JoinHorizontal(lipgloss.Center, box, connector)
	}

	return lipgloss.PlaceHorizontal(width, align, box)
}

type placement struct {
	top   float64 // fraction of column height
	block string
}

// placeColumn stacks blocks into a fixed size column at fractional offsets.
// Later blocks are pushed down rather than overlapping earlier ones.
func placeColumn(width, height int, items []placement) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	blank := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = blank
	}

	next := 0
	for _, item := range items {
		row := max(int(item.top*float64(height)), next)
		for _, line := range strings.Split(item.block, "\n") {
			if row >= height {
				break
			}
			lines[row] = lipgloss.PlaceHorizontal(width, lipgloss.Left, line)
			row++
		}
		next = row + 1
	}

	return strings.Join(lines, "\n")
}

func renderTitle(width int) string {
	block := lipgloss.JoinVertical(lipgloss.Right,
		faintStyle.Render("AI DATA SCULPTURES"),
		titleStyle.Bold(true).Render("THINKING MODE"),
		titleStyle.Render("CONCEPTUAL VISUALIZATION"),
	)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
}

func renderFooter(width int, mute string) string {
	credit := faintStyle.Render("~Shahnab~")
	date := faintStyle.Render("HCMC, 22-10-2025")

	left := lipgloss.PlaceHorizontal(width/2, lipgloss.Right, credit)
	right := lipgloss.JoinHorizontal(lipgloss.Center, date, "  ", mute)
	return lipgloss.JoinHorizontal(lipgloss.Bottom,
		left,
		lipgloss.PlaceHorizontal(width-lipgloss.Width(left), lipgloss.Right, right),
	)
}

var meterRunes = []rune("▁▂▃▄▅▆▇█")

// renderMuteControl shows the mute state, a status dot and the band meter.
func renderMuteControl(status AudioStatus, levels AudioLevels) string {
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80")).Render("●")
	label := "SOUND ON"
	if status.Muted {
		dot = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Render("●")
		label = "MUTED"
	}

	var meter strings.Builder
	peak := 0.0
	for _, e := range levels.Bands {
		peak = max(peak, e)
	}
	for _, e := range levels.Bands {
		idx := 0
		if peak > 0 && !status.Muted && status.Playing {
			idx = int(e / peak * levels.Level * float64(len(meterRunes)-1))
		}
		meter.WriteRune(meterRunes[min(max(idx, 0), len(meterRunes)-1)])
	}

	button := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#555555")).
		Padding(0, 1).
		Render(dot + " " + label + " " + connectorStyle.Render(meter.String()) + faintStyle.Render(" [m]"))

	if status.Err != "" {
		warn := faintStyle.Render("audio unavailable: " + truncateString(status.Err, 40))
		return lipgloss.JoinVertical(lipgloss.Right, warn, button)
	}
	return button
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
