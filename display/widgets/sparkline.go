package widgets

import (
	"math"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/pulse-monitor/internal/format"
)

// sparkBlocks contains 8 unicode block characters for sparkline rendering,
// ordered from lowest to highest.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// PercentSparkline renders a history of percentage samples on a fixed
// 0-100 scale, so two charts with different loads stay comparable.
// Only the most recent width samples are shown.
func PercentSparkline(data []float64, width int, color lipgloss.Color) string {
	return renderSpark(data, width, 0, 100, color)
}

// RateSparkline renders a history of byte-rate samples, auto-scaled to
// the window's peak, with the humanized peak appended as a scale hint.
// Format: ▁▂▅█▃ peak 1.5 MB/s
func RateSparkline(data []float64, width int, color lipgloss.Color) string {
	if len(data) == 0 {
		return ""
	}

	peak := 0.0
	for _, v := range data {
		if v > peak {
			peak = v
		}
	}

	spark := renderSpark(data, width, 0, peak, color)
	return spark + " peak " + format.Rate(peak)
}

// renderSpark maps samples onto block characters over the [min, max]
// range. A flat window (max == min) renders as the lowest block.
func renderSpark(data []float64, width int, minVal, maxVal float64, color lipgloss.Color) string {
	if len(data) == 0 {
		return ""
	}

	if width > 0 && width < len(data) {
		data = data[len(data)-width:]
	}

	runes := make([]rune, 0, len(data))
	for _, v := range data {
		if maxVal <= minVal {
			runes = append(runes, sparkBlocks[0])
			continue
		}
		normalized := (v - minVal) / (maxVal - minVal)
		normalized = math.Max(0, math.Min(1, normalized))
		idx := int(normalized * float64(len(sparkBlocks)-1))
		runes = append(runes, sparkBlocks[idx])
	}

	out := string(runes)
	if color != "" {
		out = lipgloss.NewStyle().Foreground(color).Render(out)
	}
	return out
}
