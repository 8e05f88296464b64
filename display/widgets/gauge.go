// Package widgets provides small text widgets for rendering engine
// snapshots: percentage gauges and history sparklines.
package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	gaugeFilledChar = "█"
	gaugeEmptyChar  = "░"

	// Color shifts as utilization crosses the warning and danger
	// thresholds.
	thresholdWarning = 70.0
	thresholdDanger  = 90.0
)

// gaugeColor returns the bar color for the given percentage.
func gaugeColor(percent float64) lipgloss.Color {
	switch {
	case percent >= thresholdDanger:
		return lipgloss.Color("#EF4444")
	case percent >= thresholdWarning:
		return lipgloss.Color("#EAB308")
	default:
		return lipgloss.Color("#22C55E")
	}
}

// Gauge renders a horizontal utilization bar with a trailing percentage.
// Format: ████████░░░░  42.5%
func Gauge(percent float64, width int) string {
	percent = math.Max(0, math.Min(100, percent))
	if width <= 0 {
		width = 20
	}

	filled := int(math.Round(percent / 100.0 * float64(width)))
	bar := lipgloss.NewStyle().
		Foreground(gaugeColor(percent)).
		Render(strings.Repeat(gaugeFilledChar, filled))
	bar += strings.Repeat(gaugeEmptyChar, width-filled)

	return fmt.Sprintf("%s %5.1f%%", bar, percent)
}
