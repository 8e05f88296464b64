package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/pulse-monitor/metrics"
	"gitlab.com/tinyland/lab/pulse-monitor/procview"
	"gitlab.com/tinyland/lab/pulse-monitor/sampler"
)

func testModel() Model {
	src := &metrics.ScriptedSource{
		CPUPercentFunc: func() (float64, error) { return 42, nil },
		MemoryFunc: func() (metrics.MemoryStat, error) {
			return metrics.MemoryStat{Percent: 60, UsedBytes: 600, TotalBytes: 1000}, nil
		},
		PartitionsFunc: func() ([]metrics.Partition, error) {
			return []metrics.Partition{{Device: "/dev/sda1", Mountpoint: "/"}}, nil
		},
		PartitionUsageFunc: func(mountpoint string) (metrics.DiskUsage, error) {
			return metrics.DiskUsage{UsedBytes: 30, TotalBytes: 100, Percent: 30}, nil
		},
		ProcessesFunc: func() ([]metrics.ProcessIdent, error) {
			return []metrics.ProcessIdent{
				{PID: 1, Name: "systemd"},
				{PID: 2, Name: "nginx"},
			}, nil
		},
		ProcessCPUPercentFunc: func(pid int32) (float64, error) { return float64(pid) * 10, nil },
		ProcessMemPercentFunc: func(pid int32) (float64, error) { return 1, nil },
	}

	smp := sampler.New(src, sampler.Options{HistorySamples: 8}, nil)
	engine := procview.NewEngine(src, nil)
	return New(smp, engine, Options{SortKey: procview.SortCPU, TopN: 10}, nil)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// TestTickRefreshesFrame verifies a timer tick samples the engine and the
// frame shows the fresh values.
func TestTickRefreshesFrame(t *testing.T) {
	m := testModel()

	updated, cmd := m.Update(tickMsg(time.Now()))
	m = updated.(Model)
	if cmd == nil {
		t.Error("tick should re-arm the timer")
	}

	view := m.View()
	for _, want := range []string{"42.0%", "60.0%", "30.0%", "nginx", "systemd", "/dev/sda1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

// TestSortCycle verifies the sort key cycles through all four orders.
func TestSortCycle(t *testing.T) {
	m := testModel()

	want := []procview.SortKey{procview.SortRAM, procview.SortPID, procview.SortName, procview.SortCPU}
	for _, k := range want {
		updated, _ := m.Update(key("s"))
		m = updated.(Model)
		if m.sortKey != k {
			t.Fatalf("sortKey = %v, want %v", m.sortKey, k)
		}
	}
}

// TestTopNKeys verifies the +/- bounds.
func TestTopNKeys(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(key("+"))
	m = updated.(Model)
	if m.topN != 15 {
		t.Errorf("topN = %d after +, want 15", m.topN)
	}

	for i := 0; i < 10; i++ {
		updated, _ = m.Update(key("-"))
		m = updated.(Model)
	}
	if m.topN != 5 {
		t.Errorf("topN = %d after repeated -, want floor of 5", m.topN)
	}
}

// TestFilterTyping verifies "/" focuses the filter, typed text narrows the
// view, and esc blurs.
func TestFilterTyping(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(tickMsg(time.Now()))
	m = updated.(Model)

	updated, _ = m.Update(key("/"))
	m = updated.(Model)
	if !m.filter.Focused() {
		t.Fatal("filter not focused after /")
	}

	for _, r := range "nginx" {
		updated, _ = m.Update(key(string(r)))
		m = updated.(Model)
	}
	if len(m.processes) != 1 || m.processes[0].Name != "nginx" {
		t.Errorf("filtered processes = %v, want only nginx", m.processes)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)
	if m.filter.Focused() {
		t.Error("filter still focused after esc")
	}
}

// TestIntervalKeys verifies [ and ] adjust the engine interval with a floor.
func TestIntervalKeys(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(key("]"))
	m = updated.(Model)
	if m.smp.Interval() != 1250*time.Millisecond {
		t.Errorf("Interval = %v after ], want 1.25s", m.smp.Interval())
	}

	for i := 0; i < 10; i++ {
		updated, _ = m.Update(key("["))
		m = updated.(Model)
	}
	if m.smp.Interval() != 250*time.Millisecond {
		t.Errorf("Interval = %v after repeated [, want floor of 250ms", m.smp.Interval())
	}
}

// TestQuitKeys verifies q quits when the filter is not focused.
func TestQuitKeys(t *testing.T) {
	m := testModel()

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("cmd() = %v, want tea.QuitMsg", msg)
	}
}
