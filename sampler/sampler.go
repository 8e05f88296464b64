// Package sampler implements the host-monitoring engine core: it pulls
// CPU, memory, disk, and network figures from a metrics.Source on each
// tick, derives instantaneous network rates from cumulative counters,
// and maintains fixed-length history series for chart rendering.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/pulse-monitor/history"
	"gitlab.com/tinyland/lab/pulse-monitor/metrics"
)

// ErrMetricsUnavailable marks a tick that failed because the CPU or
// memory query did not answer. A failed tick mutates nothing; callers
// should skip it and retry on the next interval.
var ErrMetricsUnavailable = errors.New("metrics unavailable")

// Sample is one immutable point-in-time reading.
type Sample struct {
	// CPUPercent is overall CPU utilization, 0-100.
	CPUPercent float64
	// RAMPercent is physical memory utilization, 0-100.
	RAMPercent float64
	// DiskPercent is aggregate disk utilization across readable
	// partitions, 0-100.
	DiskPercent float64
	// NetSentBps and NetRecvBps are instantaneous network rates in
	// bytes per second.
	NetSentBps float64
	NetRecvBps float64
	// Memory carries the used/total byte detail behind RAMPercent.
	Memory metrics.MemoryStat
	// Timestamp records when the sample was taken.
	Timestamp time.Time
}

// Histories is a value-copy snapshot of the five history series,
// each oldest-first and exactly the configured capacity long.
type Histories struct {
	CPU     []float64
	RAM     []float64
	Disk    []float64
	NetSent []float64
	NetRecv []float64
}

// PartitionDetail is one readable partition with its usage figures,
// for per-partition display.
type PartitionDetail struct {
	Device     string
	Mountpoint string
	UsedBytes  uint64
	TotalBytes uint64
	Percent    float64
}

// counterState is the last observed cumulative network counters and
// when they were observed. Exactly one live instance, owned by the
// Sampler between consecutive samples.
type counterState struct {
	counters metrics.NetCounters
	at       time.Time
}

// netRate converts two cumulative counter readings into bytes-per-second
// rates. Elapsed time is clamped to one second when non-positive (clock
// anomaly or two samples in the same instant), and a counter decrease
// (interface reset) yields a zero rate instead of a negative one. The
// returned state replaces the previous one unconditionally, including
// on clamps, so drift does not accumulate.
func netRate(cur metrics.NetCounters, prev counterState, now time.Time) (sentBps, recvBps float64, next counterState) {
	elapsed := now.Sub(prev.at).Seconds()
	if elapsed <= 0 {
		elapsed = 1.0
	}
	sentBps = counterDelta(cur.BytesSent, prev.counters.BytesSent) / elapsed
	recvBps = counterDelta(cur.BytesRecv, prev.counters.BytesRecv) / elapsed
	return sentBps, recvBps, counterState{counters: cur, at: now}
}

func counterDelta(cur, prev uint64) float64 {
	if cur < prev {
		return 0
	}
	return float64(cur - prev)
}

// Options configures a Sampler.
type Options struct {
	// Interval is the minimum gap between scheduled ticks in Run.
	// Defaults to one second.
	Interval time.Duration
	// HistorySamples is the capacity of each history series.
	// Defaults to history.DefaultCapacity.
	HistorySamples int
	// DiskFallbackPath is probed when no partition is readable.
	// Defaults to "/".
	DiskFallbackPath string
}

// Sampler owns the counter state and the five history series. One
// instance per monitored host; there are no package-level singletons.
//
// Sample runs to completion and is never invoked concurrently by the
// engine itself; the mutex exists so a display goroutine can read
// snapshots while Run ticks.
type Sampler struct {
	src metrics.Source
	log *slog.Logger

	mu           sync.Mutex
	interval     time.Duration
	fallbackPath string
	seeded       bool
	state        counterState

	cpu     *history.Series
	ram     *history.Series
	disk    *history.Series
	netSent *history.Series
	netRecv *history.Series

	// now is the clock, overridable in tests.
	now func() time.Time
}

// New creates a Sampler reading from src. If logger is nil, a no-op
// logger is used.
func New(src metrics.Source, opts Options, logger *slog.Logger) *Sampler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.HistorySamples < 1 {
		opts.HistorySamples = history.DefaultCapacity
	}
	if opts.DiskFallbackPath == "" {
		opts.DiskFallbackPath = "/"
	}

	return &Sampler{
		src:          src,
		log:          logger,
		interval:     opts.Interval,
		fallbackPath: opts.DiskFallbackPath,
		cpu:          history.NewSeries(opts.HistorySamples),
		ram:          history.NewSeries(opts.HistorySamples),
		disk:         history.NewSeries(opts.HistorySamples),
		netSent:      history.NewSeries(opts.HistorySamples),
		netRecv:      history.NewSeries(opts.HistorySamples),
	}
}

// Sample takes one reading. On success it appends exactly one value to
// each history series and advances the network counter state. On
// failure (ErrMetricsUnavailable) nothing is mutated.
//
// Sample is also the force-refresh entry point: calling it out of band
// does not reset or double-count Run's interval timer.
func (s *Sampler) Sample(ctx context.Context) (Sample, error) {
	select {
	case <-ctx.Done():
		return Sample{}, ctx.Err()
	default:
	}

	// CPU and memory are the two queries assumed always available;
	// either failing aborts the tick before any state changes.
	cpuPct, err := s.src.CPUPercent(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: cpu query: %v", ErrMetricsUnavailable, err)
	}
	memStat, err := s.src.Memory(ctx)
	if err != nil {
		return Sample{}, fmt.Errorf("%w: memory query: %v", ErrMetricsUnavailable, err)
	}

	diskPct := s.diskPercent(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()

	var sentBps, recvBps float64
	cur, err := s.src.NetCounters(ctx)
	switch {
	case err != nil:
		// Non-fatal: report zero rates for this tick and leave the
		// counter state untouched.
		s.log.Warn("network counters unavailable", "error", err)
	case !s.seeded:
		// First observation: no previous counters to diff against.
		s.state = counterState{counters: cur, at: now}
		s.seeded = true
	default:
		sentBps, recvBps, s.state = netRate(cur, s.state, now)
	}

	s.cpu.Push(cpuPct)
	s.ram.Push(memStat.Percent)
	s.disk.Push(diskPct)
	s.netSent.Push(sentBps)
	s.netRecv.Push(recvBps)

	smp := Sample{
		CPUPercent:  cpuPct,
		RAMPercent:  memStat.Percent,
		DiskPercent: diskPct,
		NetSentBps:  sentBps,
		NetRecvBps:  recvBps,
		Memory:      memStat,
		Timestamp:   now,
	}

	s.log.Debug("sampled",
		"cpu", fmt.Sprintf("%.1f%%", smp.CPUPercent),
		"ram", fmt.Sprintf("%.1f%%", smp.RAMPercent),
		"disk", fmt.Sprintf("%.1f%%", smp.DiskPercent),
		"net_sent_bps", fmt.Sprintf("%.0f", smp.NetSentBps),
		"net_recv_bps", fmt.Sprintf("%.0f", smp.NetRecvBps),
	)

	return smp, nil
}

// diskPercent computes aggregate disk utilization across all readable
// partitions. Individual partitions that fail to report usage are
// skipped; if nothing is readable the configured fallback path is
// probed, and if that also fails the result degrades to 0.
func (s *Sampler) diskPercent(ctx context.Context) float64 {
	var usedSum, totalSum uint64

	parts, err := s.src.Partitions(ctx)
	if err != nil {
		s.log.Warn("partition enumeration failed", "error", err)
	}
	for _, p := range parts {
		u, uerr := s.src.PartitionUsage(ctx, p.Mountpoint)
		if uerr != nil {
			s.log.Warn("partition skipped", "mountpoint", p.Mountpoint, "error", uerr)
			continue
		}
		usedSum += u.UsedBytes
		totalSum += u.TotalBytes
	}

	if totalSum > 0 {
		return float64(usedSum) / float64(totalSum) * 100.0
	}

	u, ferr := s.src.PartitionUsage(ctx, s.fallbackPath)
	if ferr != nil {
		s.log.Warn("disk fallback probe failed", "path", s.fallbackPath, "error", ferr)
		return 0.0
	}
	return u.Percent
}

// Partitions returns the readable partitions with usage detail, for
// per-partition display. Partitions that fail to report are omitted,
// never surfaced as errors.
func (s *Sampler) Partitions(ctx context.Context) []PartitionDetail {
	parts, err := s.src.Partitions(ctx)
	if err != nil {
		s.log.Warn("partition enumeration failed", "error", err)
		return nil
	}

	out := make([]PartitionDetail, 0, len(parts))
	for _, p := range parts {
		u, uerr := s.src.PartitionUsage(ctx, p.Mountpoint)
		if uerr != nil {
			s.log.Warn("partition skipped", "mountpoint", p.Mountpoint, "error", uerr)
			continue
		}
		out = append(out, PartitionDetail{
			Device:     p.Device,
			Mountpoint: p.Mountpoint,
			UsedBytes:  u.UsedBytes,
			TotalBytes: u.TotalBytes,
			Percent:    u.Percent,
		})
	}
	return out
}

// Histories returns value copies of the five series. Callers never see
// raw buffer references.
func (s *Sampler) Histories() Histories {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Histories{
		CPU:     s.cpu.Values(),
		RAM:     s.ram.Values(),
		Disk:    s.disk.Values(),
		NetSent: s.netSent.Values(),
		NetRecv: s.netRecv.Values(),
	}
}

// Interval returns the current tick interval.
func (s *Sampler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// SetInterval changes the tick interval. Intervals below one
// millisecond are ignored. The change takes effect from the next
// scheduled tick; it never interrupts a tick in progress.
func (s *Sampler) SetInterval(d time.Duration) {
	if d < time.Millisecond {
		return
	}
	s.mu.Lock()
	s.interval = d
	s.mu.Unlock()
}

// Run ticks at the configured interval until ctx is done, invoking emit
// for each successful sample. A failed tick is logged and skipped; the
// interval is a minimum gap, not a hard schedule, since each tick runs
// to completion before the next is armed.
func (s *Sampler) Run(ctx context.Context, emit func(Sample)) error {
	timer := time.NewTimer(s.Interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sampler stopping")
			return ctx.Err()
		case <-timer.C:
			smp, err := s.Sample(ctx)
			if err != nil {
				s.log.Error("tick skipped", "error", err)
			} else if emit != nil {
				emit(smp)
			}
			timer.Reset(s.Interval())
		}
	}
}

func (s *Sampler) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
