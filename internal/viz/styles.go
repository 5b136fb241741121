package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Panel around the stats column
	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(10)

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#444466"))

	driftLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	driftMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	driftHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// DriftStyle colors a relative energy drift: green below 1e-6, yellow below
// 1e-4, red above.
func DriftStyle(drift float64) lipgloss.Style {
	switch {
	case drift < 1e-6:
		return driftLow
	case drift < 1e-4:
		return driftMid
	default:
		return driftHigh
	}
}

// Row renders a label/value line of the stats panel.
func Row(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value)
}

// Separator renders a muted horizontal rule.
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return Subtle.Render(left + " ◆ " + right)
}
