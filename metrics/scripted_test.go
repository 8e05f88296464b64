package metrics

import (
	"context"
	"errors"
	"testing"
)

// TestScriptedDefaults verifies unset fields return zero values, not errors,
// so partial scripts stay terse in engine tests.
func TestScriptedDefaults(t *testing.T) {
	src := &ScriptedSource{}
	ctx := context.Background()

	if v, err := src.CPUPercent(ctx); err != nil || v != 0 {
		t.Errorf("CPUPercent = (%f, %v), want (0, nil)", v, err)
	}
	if m, err := src.Memory(ctx); err != nil || m != (MemoryStat{}) {
		t.Errorf("Memory = (%+v, %v), want zero value", m, err)
	}
	if p, err := src.Partitions(ctx); err != nil || p != nil {
		t.Errorf("Partitions = (%v, %v), want (nil, nil)", p, err)
	}
	if c, err := src.NetCounters(ctx); err != nil || c != (NetCounters{}) {
		t.Errorf("NetCounters = (%+v, %v), want zero value", c, err)
	}
}

// TestScriptedOverrides verifies set fields are consulted.
func TestScriptedOverrides(t *testing.T) {
	wantErr := errors.New("boom")
	src := &ScriptedSource{
		CPUPercentFunc: func() (float64, error) { return 42.5, nil },
		ProcessCPUPercentFunc: func(pid int32) (float64, error) {
			if pid == 7 {
				return 0, wantErr
			}
			return 12.0, nil
		},
	}
	ctx := context.Background()

	if v, _ := src.CPUPercent(ctx); v != 42.5 {
		t.Errorf("CPUPercent = %f, want 42.5", v)
	}
	if _, err := src.ProcessCPUPercent(ctx, 7); !errors.Is(err, wantErr) {
		t.Errorf("ProcessCPUPercent(7) err = %v, want %v", err, wantErr)
	}
	if v, err := src.ProcessCPUPercent(ctx, 8); err != nil || v != 12.0 {
		t.Errorf("ProcessCPUPercent(8) = (%f, %v), want (12.0, nil)", v, err)
	}
}
