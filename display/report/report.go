// Package report renders a one-shot plain-text snapshot of the engine
// state, for the -once CLI mode.
package report

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/pulse-monitor/display/widgets"
	"gitlab.com/tinyland/lab/pulse-monitor/internal/format"
	"gitlab.com/tinyland/lab/pulse-monitor/metrics"
	"gitlab.com/tinyland/lab/pulse-monitor/sampler"
)

// Snapshot bundles everything the report renders.
type Snapshot struct {
	Sample     sampler.Sample
	Histories  sampler.Histories
	Partitions []sampler.PartitionDetail
	Processes  []metrics.ProcessRecord
}

// Render produces the full text report. Width bounds the sparkline and
// name columns; values below 40 are raised to 40.
func Render(snap Snapshot, width int) string {
	if width < 40 {
		width = 40
	}
	sparkWidth := width - 24
	if sparkWidth > 60 {
		sparkWidth = 60
	}

	var b strings.Builder

	b.WriteString(fmt.Sprintf("CPU  %s %s\n",
		widgets.Gauge(snap.Sample.CPUPercent, 20),
		widgets.PercentSparkline(snap.Histories.CPU, sparkWidth, "")))
	b.WriteString(fmt.Sprintf("RAM  %s %s\n",
		widgets.Gauge(snap.Sample.RAMPercent, 20),
		widgets.PercentSparkline(snap.Histories.RAM, sparkWidth, "")))
	b.WriteString(fmt.Sprintf("     %s / %s\n",
		format.Bytes(float64(snap.Sample.Memory.UsedBytes)),
		format.Bytes(float64(snap.Sample.Memory.TotalBytes))))
	b.WriteString(fmt.Sprintf("Disk %s %s\n",
		widgets.Gauge(snap.Sample.DiskPercent, 20),
		widgets.PercentSparkline(snap.Histories.Disk, sparkWidth, "")))
	b.WriteString(fmt.Sprintf("Up   %-12s %s\n",
		format.Rate(snap.Sample.NetSentBps),
		widgets.RateSparkline(snap.Histories.NetSent, sparkWidth, "")))
	b.WriteString(fmt.Sprintf("Down %-12s %s\n",
		format.Rate(snap.Sample.NetRecvBps),
		widgets.RateSparkline(snap.Histories.NetRecv, sparkWidth, "")))

	if len(snap.Partitions) > 0 {
		b.WriteString("\nPartitions:\n")
		for _, p := range snap.Partitions {
			b.WriteString(fmt.Sprintf("  %-20s %s  %s / %s\n",
				format.TruncateWithEllipsis(p.Device+" ("+p.Mountpoint+")", 20),
				widgets.Gauge(p.Percent, 12),
				format.Bytes(float64(p.UsedBytes)),
				format.Bytes(float64(p.TotalBytes))))
		}
	}

	if len(snap.Processes) > 0 {
		b.WriteString("\nProcesses:\n")
		b.WriteString(fmt.Sprintf("  %7s  %-24s %8s %8s\n", "PID", "NAME", "CPU%", "RAM%"))
		for _, p := range snap.Processes {
			b.WriteString(fmt.Sprintf("  %7d  %-24s %8.1f %8.1f\n",
				p.PID,
				format.TruncateWithEllipsis(p.Name, 24),
				p.CPUPercent,
				p.MemPercent))
		}
	}

	return b.String()
}
