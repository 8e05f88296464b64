package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/pulse-monitor/display/widgets"
	"gitlab.com/tinyland/lab/pulse-monitor/internal/format"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#38BDF8"))
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	cpuColor  = lipgloss.Color("#EAB308")
	ramColor  = lipgloss.Color("#22D3EE")
	diskColor = lipgloss.Color("#D946EF")
	sentColor = lipgloss.Color("#22C55E")
	recvColor = lipgloss.Color("#EF4444")
)

// View renders the full frame.
func (m Model) View() string {
	width := m.width
	if width < 60 {
		width = 60
	}
	sparkWidth := width - 36
	if sparkWidth > 60 {
		sparkWidth = 60
	}

	var sections []string

	sections = append(sections, titleStyle.Render("pulse-monitor"))
	sections = append(sections, "")

	sections = append(sections, fmt.Sprintf("%s %s %s",
		labelStyle.Render("CPU "),
		widgets.Gauge(m.sample.CPUPercent, 20),
		widgets.PercentSparkline(m.histories.CPU, sparkWidth, cpuColor)))

	ramDetail := fmt.Sprintf("(%s / %s)",
		format.Bytes(float64(m.sample.Memory.UsedBytes)),
		format.Bytes(float64(m.sample.Memory.TotalBytes)))
	sections = append(sections, fmt.Sprintf("%s %s %s",
		labelStyle.Render("RAM "),
		widgets.Gauge(m.sample.RAMPercent, 20),
		widgets.PercentSparkline(m.histories.RAM, sparkWidth, ramColor)))
	sections = append(sections, "     "+mutedStyle.Render(ramDetail))

	sections = append(sections, fmt.Sprintf("%s %s %s",
		labelStyle.Render("Disk"),
		widgets.Gauge(m.sample.DiskPercent, 20),
		widgets.PercentSparkline(m.histories.Disk, sparkWidth, diskColor)))

	sections = append(sections, fmt.Sprintf("%s %-12s %s",
		labelStyle.Render("Up  "),
		format.Rate(m.sample.NetSentBps),
		widgets.RateSparkline(m.histories.NetSent, sparkWidth, sentColor)))
	sections = append(sections, fmt.Sprintf("%s %-12s %s",
		labelStyle.Render("Down"),
		format.Rate(m.sample.NetRecvBps),
		widgets.RateSparkline(m.histories.NetRecv, sparkWidth, recvColor)))

	if len(m.partitions) > 0 {
		sections = append(sections, "")
		sections = append(sections, headerStyle.Render("Partitions"))
		for _, p := range m.partitions {
			sections = append(sections, fmt.Sprintf("  %-24s %s  %s",
				format.TruncateWithEllipsis(p.Device+" ("+p.Mountpoint+")", 24),
				widgets.Gauge(p.Percent, 12),
				mutedStyle.Render(format.Bytes(float64(p.UsedBytes))+" / "+format.Bytes(float64(p.TotalBytes)))))
		}
	}

	sections = append(sections, "")
	sections = append(sections, headerStyle.Render(
		fmt.Sprintf("Processes  sort:%s  top:%d", m.sortKey, m.topN)))
	sections = append(sections, "  "+m.filter.View())
	sections = append(sections, mutedStyle.Render(
		fmt.Sprintf("  %7s  %-28s %7s %7s", "PID", "NAME", "CPU%", "RAM%")))
	for _, p := range m.processes {
		sections = append(sections, fmt.Sprintf("  %7d  %-28s %7.1f %7.1f",
			p.PID,
			format.TruncateWithEllipsis(p.Name, 28),
			p.CPUPercent,
			p.MemPercent))
	}

	sections = append(sections, "")
	if m.lastErr != nil {
		sections = append(sections, errorStyle.Render("! "+m.lastErr.Error()))
	}
	sections = append(sections, mutedStyle.Render(fmt.Sprintf(
		"interval %s · / filter · s sort · +/- top · [/] interval · r refresh · q quit",
		format.Duration(m.smp.Interval()))))

	return strings.Join(sections, "\n")
}
