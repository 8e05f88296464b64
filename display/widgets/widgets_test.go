package widgets

import (
	"strings"
	"testing"
)

func TestGauge(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		width   int
		filled  int
	}{
		{"empty", 0, 10, 0},
		{"half", 50, 10, 5},
		{"full", 100, 10, 10},
		{"clamped above", 150, 10, 10},
		{"clamped below", -5, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Gauge(tt.percent, tt.width)
			if n := strings.Count(got, gaugeFilledChar); n != tt.filled {
				t.Errorf("filled cells = %d, want %d", n, tt.filled)
			}
			if n := strings.Count(got, gaugeEmptyChar); n != tt.width-tt.filled {
				t.Errorf("empty cells = %d, want %d", n, tt.width-tt.filled)
			}
			if !strings.Contains(got, "%") {
				t.Errorf("gauge missing percent suffix: %q", got)
			}
		})
	}
}

func TestPercentSparkline(t *testing.T) {
	// Fixed 0-100 scale: 0 maps to the lowest block, 100 to the highest.
	got := PercentSparkline([]float64{0, 50, 100}, 0, "")
	runes := []rune(got)
	if len(runes) != 3 {
		t.Fatalf("rune length = %d, want 3", len(runes))
	}
	if runes[0] != '▁' {
		t.Errorf("runes[0] = %c, want ▁", runes[0])
	}
	if runes[2] != '█' {
		t.Errorf("runes[2] = %c, want █", runes[2])
	}
}

func TestPercentSparklineTruncatesToWidth(t *testing.T) {
	got := PercentSparkline([]float64{0, 0, 0, 100, 100}, 2, "")
	if len([]rune(got)) != 2 {
		t.Fatalf("rune length = %d, want 2", len([]rune(got)))
	}
	for _, r := range got {
		if r != '█' {
			t.Errorf("expected only highest blocks from the tail, got %q", got)
		}
	}
}

func TestRateSparkline(t *testing.T) {
	got := RateSparkline([]float64{0, 768, 1536}, 0, "")
	if !strings.HasSuffix(got, "peak 1.5 KB/s") {
		t.Errorf("missing humanized peak hint: %q", got)
	}
}

func TestRateSparklineFlatWindow(t *testing.T) {
	// An all-zero window must not divide by zero.
	got := RateSparkline([]float64{0, 0, 0}, 0, "")
	if !strings.Contains(got, "▁▁▁") {
		t.Errorf("flat window should render lowest blocks: %q", got)
	}
	if !strings.HasSuffix(got, "peak 0 B/s") {
		t.Errorf("flat window peak hint wrong: %q", got)
	}
}

func TestEmptyData(t *testing.T) {
	if got := PercentSparkline(nil, 10, ""); got != "" {
		t.Errorf("PercentSparkline(nil) = %q, want empty", got)
	}
	if got := RateSparkline(nil, 10, ""); got != "" {
		t.Errorf("RateSparkline(nil) = %q, want empty", got)
	}
}
