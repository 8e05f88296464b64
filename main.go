// pulse-monitor is a local host-monitoring tool.
//
// It samples CPU, memory, disk, and network usage at a configurable
// cadence, keeps rolling history for charts, and shows a ranked,
// filterable process list.
//
// Usage:
//
//	pulse-monitor [flags]
//
// Flags:
//
//	-config string    Path to configuration file
//	-once             Print one snapshot and exit
//	-interval int     Sampling interval in milliseconds (overrides config)
//	-top int          Number of processes to show (overrides config)
//	-sort string      Process sort key: cpu|ram|pid|name (overrides config)
//	-filter string    Process filter for -once mode
//	-width int        Output width for -once mode (default 80)
//	-verbose          Enable verbose logging
//	-version          Print version and exit
//
// Without -once, the interactive TUI starts.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/pulse-monitor/config"
	"gitlab.com/tinyland/lab/pulse-monitor/display/report"
	"gitlab.com/tinyland/lab/pulse-monitor/display/tui"
	"gitlab.com/tinyland/lab/pulse-monitor/metrics"
	"gitlab.com/tinyland/lab/pulse-monitor/procview"
	"gitlab.com/tinyland/lab/pulse-monitor/sampler"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		runOnceMode = flag.Bool("once", false, "Print one snapshot and exit")
		intervalMS  = flag.Int("interval", 0, "Sampling interval in milliseconds (overrides config)")
		topN        = flag.Int("top", 0, "Number of processes to show (overrides config)")
		sortKey     = flag.String("sort", "", "Process sort key: cpu|ram|pid|name (overrides config)")
		filter      = flag.String("filter", "", "Process filter for -once mode")
		width       = flag.Int("width", 80, "Output width for -once mode")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("pulse-monitor %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	applyOverrides(cfg, *intervalMS, *topN, *sortKey)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so interactive runs log to the
	// configured file or nowhere; -once logs to stderr.
	logger, closeLog, err := setupLogger(cfg, *verbose, !*runOnceMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	src := metrics.NewSystemSource()
	smp := sampler.New(src, sampler.Options{
		Interval:         cfg.Sampler.Interval(),
		HistorySamples:   cfg.Sampler.HistorySamples,
		DiskFallbackPath: cfg.Sampler.DiskFallbackPath,
	}, logger)
	engine := procview.NewEngine(src, logger)

	if *runOnceMode {
		if err := runOnce(smp, engine, cfg, *filter, *width, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "snapshot failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	model := tui.New(smp, engine, tui.Options{
		SortKey: cfg.SortKey(),
		TopN:    cfg.ProcessView.TopN,
	}, logger)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "tui failed: %v\n", err)
		os.Exit(1)
	}
}

// applyOverrides folds command-line overrides into the configuration so
// a single Validate covers both sources.
func applyOverrides(cfg *config.Config, intervalMS, topN int, sortKey string) {
	if intervalMS > 0 {
		cfg.Sampler.IntervalMS = intervalMS
	}
	if topN > 0 {
		cfg.ProcessView.TopN = topN
	}
	if sortKey != "" {
		cfg.ProcessView.Sort = sortKey
	}
}

// setupLogger builds the slog logger. Interactive mode without a log
// file discards output rather than writing over the TUI.
func setupLogger(cfg *config.Config, verbose, interactive bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closeLog := func() {}

	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeLog = func() { f.Close() }
	} else if interactive {
		w = io.Discard
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closeLog, nil
}

// runOnce takes two samples one interval apart, so CPU and network
// deltas have a previous observation to diff against, then prints the
// snapshot report.
func runOnce(smp *sampler.Sampler, engine *procview.Engine, cfg *config.Config, filter string, width int, w io.Writer) error {
	ctx := context.Background()

	if _, err := smp.Sample(ctx); err != nil {
		return err
	}
	time.Sleep(cfg.Sampler.Interval())
	smpl, err := smp.Sample(ctx)
	if err != nil {
		return err
	}

	procs, err := engine.View(ctx, procview.Request{
		Filter: filter,
		Sort:   cfg.SortKey(),
		TopN:   cfg.ProcessView.TopN,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, report.Render(report.Snapshot{
		Sample:     smpl,
		Histories:  smp.Histories(),
		Partitions: smp.Partitions(ctx),
		Processes:  procs,
	}, width))
	return err
}
