package metrics

import "context"

// ScriptedSource is a Source whose answers come from overridable
// function fields. Unset fields return zero values with no error.
// Useful for deterministic engine tests and for driving the display
// layer without touching the OS.
type ScriptedSource struct {
	CPUPercentFunc        func() (float64, error)
	MemoryFunc            func() (MemoryStat, error)
	PartitionsFunc        func() ([]Partition, error)
	PartitionUsageFunc    func(mountpoint string) (DiskUsage, error)
	NetCountersFunc       func() (NetCounters, error)
	ProcessesFunc         func() ([]ProcessIdent, error)
	ProcessCPUPercentFunc func(pid int32) (float64, error)
	ProcessMemPercentFunc func(pid int32) (float64, error)
}

func (s *ScriptedSource) CPUPercent(ctx context.Context) (float64, error) {
	if s.CPUPercentFunc != nil {
		return s.CPUPercentFunc()
	}
	return 0, nil
}

func (s *ScriptedSource) Memory(ctx context.Context) (MemoryStat, error) {
	if s.MemoryFunc != nil {
		return s.MemoryFunc()
	}
	return MemoryStat{}, nil
}

func (s *ScriptedSource) Partitions(ctx context.Context) ([]Partition, error) {
	if s.PartitionsFunc != nil {
		return s.PartitionsFunc()
	}
	return nil, nil
}

func (s *ScriptedSource) PartitionUsage(ctx context.Context, mountpoint string) (DiskUsage, error) {
	if s.PartitionUsageFunc != nil {
		return s.PartitionUsageFunc(mountpoint)
	}
	return DiskUsage{}, nil
}

func (s *ScriptedSource) NetCounters(ctx context.Context) (NetCounters, error) {
	if s.NetCountersFunc != nil {
		return s.NetCountersFunc()
	}
	return NetCounters{}, nil
}

func (s *ScriptedSource) Processes(ctx context.Context) ([]ProcessIdent, error) {
	if s.ProcessesFunc != nil {
		return s.ProcessesFunc()
	}
	return nil, nil
}

func (s *ScriptedSource) ProcessCPUPercent(ctx context.Context, pid int32) (float64, error) {
	if s.ProcessCPUPercentFunc != nil {
		return s.ProcessCPUPercentFunc(pid)
	}
	return 0, nil
}

func (s *ScriptedSource) ProcessMemPercent(ctx context.Context, pid int32) (float64, error) {
	if s.ProcessMemPercentFunc != nil {
		return s.ProcessMemPercentFunc(pid)
	}
	return 0, nil
}

// Compile-time interface compliance check.
var _ Source = (*ScriptedSource)(nil)
