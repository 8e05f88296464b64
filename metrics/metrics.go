// Package metrics defines the capability interface the monitoring engine
// uses to query the operating system, plus the production implementation
// backed by gopsutil and a scripted implementation for deterministic tests.
package metrics

import "context"

// MemoryStat holds system memory usage.
type MemoryStat struct {
	// Percent is the used fraction of physical memory, 0-100.
	Percent float64
	// UsedBytes is the amount of memory in use.
	UsedBytes uint64
	// TotalBytes is the total physical memory.
	TotalBytes uint64
}

// Partition identifies a mounted disk partition.
type Partition struct {
	Device     string
	Mountpoint string
}

// DiskUsage holds usage figures for a single mounted filesystem.
type DiskUsage struct {
	UsedBytes  uint64
	TotalBytes uint64
	// Percent is the filesystem's own used percentage as reported
	// by the OS, 0-100.
	Percent float64
}

// NetCounters holds cumulative network byte counters summed across
// interfaces. Counters are non-decreasing under normal operation but
// may reset when an interface restarts.
type NetCounters struct {
	BytesSent uint64
	BytesRecv uint64
}

// ProcessIdent identifies a process from a single enumeration pass.
type ProcessIdent struct {
	PID  int32
	Name string
}

// ProcessRecord is one process's resource usage at a point in time.
// Records are re-enumerated on every pass; no identity is tracked
// across passes.
type ProcessRecord struct {
	PID        int32
	Name       string
	CPUPercent float64
	MemPercent float64
}

// Source is the set of OS queries the engine depends on. The engine
// treats it as an opaque capability: production code uses SystemSource,
// tests use ScriptedSource.
//
// Per-process CPU percentages require delta computation between reads;
// that state belongs to the Source implementation, never to callers.
type Source interface {
	// CPUPercent returns overall CPU utilization, 0-100.
	CPUPercent(ctx context.Context) (float64, error)

	// Memory returns physical memory usage.
	Memory(ctx context.Context) (MemoryStat, error)

	// Partitions enumerates mounted physical partitions.
	Partitions(ctx context.Context) ([]Partition, error)

	// PartitionUsage reports usage for a single mountpoint.
	PartitionUsage(ctx context.Context, mountpoint string) (DiskUsage, error)

	// NetCounters returns cumulative network byte counters summed
	// across all interfaces.
	NetCounters(ctx context.Context) (NetCounters, error)

	// Processes enumerates currently visible processes.
	Processes(ctx context.Context) ([]ProcessIdent, error)

	// ProcessCPUPercent returns one process's CPU utilization, 0-100.
	ProcessCPUPercent(ctx context.Context, pid int32) (float64, error)

	// ProcessMemPercent returns one process's share of physical
	// memory, 0-100.
	ProcessMemPercent(ctx context.Context, pid int32) (float64, error)
}
