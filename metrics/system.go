package metrics

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// SystemSource is the production Source backed by gopsutil.
//
// It retains a per-PID process handle cache because gopsutil computes
// per-process CPU percentages as a delta against the previous read on
// the same handle. The cache is pruned on every enumeration so handles
// for exited processes are not retained.
type SystemSource struct {
	mu    sync.Mutex
	procs map[int32]*process.Process
}

// NewSystemSource creates a SystemSource.
func NewSystemSource() *SystemSource {
	return &SystemSource{
		procs: make(map[int32]*process.Process),
	}
}

// CPUPercent returns overall CPU utilization since the previous call.
// The first call seeds the internal counters and reports 0.
func (s *SystemSource) CPUPercent(ctx context.Context) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, fmt.Errorf("metrics: read cpu percent: %w", err)
	}
	if len(percents) == 0 {
		return 0, fmt.Errorf("metrics: cpu percent returned no values")
	}
	return percents[0], nil
}

// Memory returns physical memory usage.
func (s *SystemSource) Memory(ctx context.Context) (MemoryStat, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStat{}, fmt.Errorf("metrics: read virtual memory: %w", err)
	}
	return MemoryStat{
		Percent:    vm.UsedPercent,
		UsedBytes:  vm.Used,
		TotalBytes: vm.Total,
	}, nil
}

// Partitions enumerates physical partitions (no pseudo or duplicate
// filesystems).
func (s *SystemSource) Partitions(ctx context.Context) ([]Partition, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("metrics: enumerate partitions: %w", err)
	}

	out := make([]Partition, 0, len(parts))
	for _, p := range parts {
		out = append(out, Partition{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
		})
	}
	return out, nil
}

// PartitionUsage reports usage for a single mountpoint.
func (s *SystemSource) PartitionUsage(ctx context.Context, mountpoint string) (DiskUsage, error) {
	u, err := disk.UsageWithContext(ctx, mountpoint)
	if err != nil {
		return DiskUsage{}, fmt.Errorf("metrics: read usage for %s: %w", mountpoint, err)
	}
	return DiskUsage{
		UsedBytes:  u.Used,
		TotalBytes: u.Total,
		Percent:    u.UsedPercent,
	}, nil
}

// NetCounters returns cumulative byte counters summed across interfaces.
func (s *SystemSource) NetCounters(ctx context.Context) (NetCounters, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return NetCounters{}, fmt.Errorf("metrics: read net counters: %w", err)
	}
	if len(counters) == 0 {
		return NetCounters{}, fmt.Errorf("metrics: net counters returned no interfaces")
	}
	return NetCounters{
		BytesSent: counters[0].BytesSent,
		BytesRecv: counters[0].BytesRecv,
	}, nil
}

// Processes enumerates visible processes and refreshes the handle cache.
// A process whose name cannot be read falls back to its PID rendered as
// a string, matching how unnamed kernel workers show up in process lists.
func (s *SystemSource) Processes(ctx context.Context) ([]ProcessIdent, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("metrics: enumerate processes: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int32]bool, len(procs))
	idents := make([]ProcessIdent, 0, len(procs))
	for _, p := range procs {
		seen[p.Pid] = true
		if _, ok := s.procs[p.Pid]; !ok {
			s.procs[p.Pid] = p
		}

		name, err := s.procs[p.Pid].NameWithContext(ctx)
		if err != nil || name == "" {
			name = strconv.Itoa(int(p.Pid))
		}
		idents = append(idents, ProcessIdent{PID: p.Pid, Name: name})
	}

	// Prune handles for processes that no longer exist so CPU delta
	// state is not kept for reused PIDs.
	for pid := range s.procs {
		if !seen[pid] {
			delete(s.procs, pid)
		}
	}

	return idents, nil
}

// ProcessCPUPercent returns one process's CPU utilization. The first
// read on a fresh handle seeds the delta state and reports 0.
func (s *SystemSource) ProcessCPUPercent(ctx context.Context, pid int32) (float64, error) {
	p, err := s.handle(ctx, pid)
	if err != nil {
		return 0, err
	}
	pct, err := p.CPUPercentWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("metrics: read cpu percent for pid %d: %w", pid, err)
	}
	return pct, nil
}

// ProcessMemPercent returns one process's share of physical memory.
func (s *SystemSource) ProcessMemPercent(ctx context.Context, pid int32) (float64, error) {
	p, err := s.handle(ctx, pid)
	if err != nil {
		return 0, err
	}
	pct, err := p.MemoryPercentWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("metrics: read memory percent for pid %d: %w", pid, err)
	}
	return float64(pct), nil
}

// handle returns the cached process handle for pid, creating one if the
// pid was not part of the last enumeration.
func (s *SystemSource) handle(ctx context.Context, pid int32) (*process.Process, error) {
	s.mu.Lock()
	p, ok := s.procs[pid]
	s.mu.Unlock()
	if ok {
		return p, nil
	}

	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("metrics: open process %d: %w", pid, err)
	}

	s.mu.Lock()
	s.procs[pid] = p
	s.mu.Unlock()
	return p, nil
}

// Compile-time interface compliance check.
var _ Source = (*SystemSource)(nil)
