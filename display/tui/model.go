// Package tui is the interactive terminal consumer of the monitoring
// engine. It drives the engine from bubbletea's timer, so sampling and
// ranking stay on a single cooperative timeline, and renders whatever
// snapshot the engine returns. All state here is presentation state;
// the engine owns counters and history.
package tui

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/pulse-monitor/metrics"
	"gitlab.com/tinyland/lab/pulse-monitor/procview"
	"gitlab.com/tinyland/lab/pulse-monitor/sampler"
)

// Options sets the initial process view controls.
type Options struct {
	SortKey procview.SortKey
	TopN    int
}

// Model is the bubbletea model for the monitor.
type Model struct {
	smp    *sampler.Sampler
	engine *procview.Engine
	log    *slog.Logger

	filter  textinput.Model
	sortKey procview.SortKey
	topN    int

	sample     sampler.Sample
	histories  sampler.Histories
	partitions []sampler.PartitionDetail
	processes  []metrics.ProcessRecord
	lastErr    error

	width  int
	height int
}

// tickMsg is the sampling timer firing.
type tickMsg time.Time

// New creates the model. If logger is nil, a no-op logger is used.
func New(smp *sampler.Sampler, engine *procview.Engine, opts Options, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.TopN < 1 {
		opts.TopN = 30
	}

	filter := textinput.New()
	filter.Placeholder = "name or PID"
	filter.Prompt = "filter: "
	filter.CharLimit = 64

	return Model{
		smp:       smp,
		engine:    engine,
		log:       logger,
		filter:    filter,
		sortKey:   opts.SortKey,
		topN:      opts.TopN,
		histories: smp.Histories(),
	}
}

// Init arms the first sampling tick.
func (m Model) Init() tea.Cmd {
	return tick(m.smp.Interval())
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles timer ticks, resize, and key input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.refresh()
		// Re-arm with the current interval so SetInterval takes
		// effect from the next scheduled tick.
		return m, tick(m.smp.Interval())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// refresh runs one engine pass: sample, history snapshot, partitions,
// and the ranked process view. A failed tick keeps the previous frame.
func (m *Model) refresh() {
	ctx := context.Background()

	smp, err := m.smp.Sample(ctx)
	if err != nil {
		m.lastErr = err
		m.log.Error("tick skipped", "error", err)
		return
	}
	m.lastErr = nil
	m.sample = smp
	m.histories = m.smp.Histories()
	m.partitions = m.smp.Partitions(ctx)
	m.refreshProcesses()
}

// refreshProcesses recomputes only the ranked view, for control changes
// between ticks.
func (m *Model) refreshProcesses() {
	procs, err := m.engine.View(context.Background(), procview.Request{
		Filter: m.filter.Value(),
		Sort:   m.sortKey,
		TopN:   m.topN,
	})
	if err != nil {
		m.lastErr = err
		m.log.Error("process view failed", "error", err)
		return
	}
	m.processes = procs
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the filter is focused, keys edit the filter text.
	if m.filter.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.filter.Blur()
		case "ctrl+c":
			return m, tea.Quit
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.refreshProcesses()
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.filter.Focus()
		return m, textinput.Blink

	case "s":
		m.sortKey = nextSortKey(m.sortKey)
		m.refreshProcesses()

	case "+", "=":
		m.topN += 5
		m.refreshProcesses()

	case "-":
		if m.topN > 5 {
			m.topN -= 5
			m.refreshProcesses()
		}

	case "r":
		// Out-of-band refresh; the tick timer is untouched.
		m.refresh()

	case "[":
		m.adjustInterval(-250 * time.Millisecond)

	case "]":
		m.adjustInterval(250 * time.Millisecond)
	}

	return m, nil
}

// adjustInterval nudges the sampling interval, floored at 250ms.
// The change applies from the next scheduled tick.
func (m *Model) adjustInterval(delta time.Duration) {
	next := m.smp.Interval() + delta
	if next < 250*time.Millisecond {
		next = 250 * time.Millisecond
	}
	m.smp.SetInterval(next)
}

func nextSortKey(k procview.SortKey) procview.SortKey {
	switch k {
	case procview.SortCPU:
		return procview.SortRAM
	case procview.SortRAM:
		return procview.SortPID
	case procview.SortPID:
		return procview.SortName
	default:
		return procview.SortCPU
	}
}
