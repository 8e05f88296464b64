// Package procview produces ranked, filtered, bounded views of the
// current process list for display.
package procview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"gitlab.com/tinyland/lab/pulse-monitor/metrics"
)

// SortKey selects the ranking order for a process view.
type SortKey int

const (
	// SortCPU ranks by CPU percentage, highest first.
	SortCPU SortKey = iota
	// SortRAM ranks by memory percentage, highest first.
	SortRAM
	// SortPID ranks by PID, ascending.
	SortPID
	// SortName ranks by name, ascending case-insensitive.
	SortName
)

// String returns the lowercase key name used in config and CLI flags.
func (k SortKey) String() string {
	switch k {
	case SortCPU:
		return "cpu"
	case SortRAM:
		return "ram"
	case SortPID:
		return "pid"
	case SortName:
		return "name"
	}
	return "unknown"
}

// ParseSortKey parses a case-insensitive key name.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpu":
		return SortCPU, nil
	case "ram":
		return SortRAM, nil
	case "pid":
		return SortPID, nil
	case "name":
		return SortName, nil
	}
	return SortCPU, fmt.Errorf("procview: unknown sort key %q", s)
}

// Request describes one process view: filter text, ranking order, and
// the result bound. Requests carry no state between calls.
type Request struct {
	// Filter keeps records whose lowercased name contains the
	// lowercased filter text, or whose PID matches it exactly as a
	// decimal string. Empty keeps everything.
	Filter string
	// Sort selects the ranking order.
	Sort SortKey
	// TopN bounds the result length. Non-positive means unbounded.
	TopN int
}

// Rank sorts, filters, and bounds a process list. The input slice is
// not modified. Equal keys preserve their enumeration order, so the
// output is always consistent with a single point-in-time enumeration.
func Rank(records []metrics.ProcessRecord, req Request) []metrics.ProcessRecord {
	out := make([]metrics.ProcessRecord, len(records))
	copy(out, records)

	switch req.Sort {
	case SortRAM:
		sort.SliceStable(out, func(i, j int) bool { return out[i].MemPercent > out[j].MemPercent })
	case SortPID:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CPUPercent > out[j].CPUPercent })
	}

	if q := strings.ToLower(strings.TrimSpace(req.Filter)); q != "" {
		kept := out[:0]
		for _, r := range out {
			if strings.Contains(strings.ToLower(r.Name), q) || q == strconv.Itoa(int(r.PID)) {
				kept = append(kept, r)
			}
		}
		out = kept
	}

	if req.TopN > 0 && len(out) > req.TopN {
		out = out[:req.TopN]
	}
	return out
}

// Engine enumerates processes from a metrics.Source and ranks them.
type Engine struct {
	src metrics.Source
	log *slog.Logger
}

// NewEngine creates an Engine. If logger is nil, a no-op logger is used.
func NewEngine(src metrics.Source, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{src: src, log: logger}
}

// View enumerates the current process list and returns the ranked,
// filtered, bounded view. A process that vanishes or denies access
// between enumeration and property read is omitted, never an error;
// only the enumeration itself can fail.
func (e *Engine) View(ctx context.Context, req Request) ([]metrics.ProcessRecord, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	idents, err := e.src.Processes(ctx)
	if err != nil {
		return nil, fmt.Errorf("procview: enumerate: %w", err)
	}

	records := make([]metrics.ProcessRecord, 0, len(idents))
	for _, id := range idents {
		cpuPct, cerr := e.src.ProcessCPUPercent(ctx, id.PID)
		if cerr != nil {
			e.log.Debug("process skipped", "pid", id.PID, "error", cerr)
			continue
		}
		memPct, merr := e.src.ProcessMemPercent(ctx, id.PID)
		if merr != nil {
			e.log.Debug("process skipped", "pid", id.PID, "error", merr)
			continue
		}
		records = append(records, metrics.ProcessRecord{
			PID:        id.PID,
			Name:       id.Name,
			CPUPercent: cpuPct,
			MemPercent: memPct,
		})
	}

	return Rank(records, req), nil
}
