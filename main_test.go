package main

import (
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/pulse-monitor/config"
	"gitlab.com/tinyland/lab/pulse-monitor/metrics"
	"gitlab.com/tinyland/lab/pulse-monitor/procview"
	"gitlab.com/tinyland/lab/pulse-monitor/sampler"
)

func TestApplyOverrides(t *testing.T) {
	cfg := config.DefaultConfig()

	applyOverrides(cfg, 250, 5, "ram")
	if cfg.Sampler.IntervalMS != 250 {
		t.Errorf("IntervalMS = %d, want 250", cfg.Sampler.IntervalMS)
	}
	if cfg.ProcessView.TopN != 5 {
		t.Errorf("TopN = %d, want 5", cfg.ProcessView.TopN)
	}
	if cfg.ProcessView.Sort != "ram" {
		t.Errorf("Sort = %q, want ram", cfg.ProcessView.Sort)
	}

	// Zero values leave the config untouched.
	applyOverrides(cfg, 0, 0, "")
	if cfg.Sampler.IntervalMS != 250 || cfg.ProcessView.TopN != 5 || cfg.ProcessView.Sort != "ram" {
		t.Errorf("zero overrides mutated config: %+v", cfg)
	}
}

func TestRunOnce(t *testing.T) {
	src := &metrics.ScriptedSource{
		CPUPercentFunc: func() (float64, error) { return 25, nil },
		MemoryFunc: func() (metrics.MemoryStat, error) {
			return metrics.MemoryStat{Percent: 50, UsedBytes: 512, TotalBytes: 1024}, nil
		},
		ProcessesFunc: func() ([]metrics.ProcessIdent, error) {
			return []metrics.ProcessIdent{{PID: 7, Name: "stress"}}, nil
		},
		ProcessCPUPercentFunc: func(pid int32) (float64, error) { return 99, nil },
		ProcessMemPercentFunc: func(pid int32) (float64, error) { return 2, nil },
	}

	cfg := config.DefaultConfig()
	cfg.Sampler.IntervalMS = 1 // keep the between-samples sleep short

	smp := sampler.New(src, sampler.Options{
		Interval:       cfg.Sampler.Interval(),
		HistorySamples: 4,
	}, nil)
	engine := procview.NewEngine(src, nil)

	var out strings.Builder
	if err := runOnce(smp, engine, cfg, "", 80, &out); err != nil {
		t.Fatalf("runOnce error: %v", err)
	}

	for _, want := range []string{"25.0%", "50.0%", "stress"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("report missing %q:\n%s", want, out.String())
		}
	}
}
