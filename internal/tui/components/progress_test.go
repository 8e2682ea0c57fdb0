package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fcast/internal/tui/theme"
)

func TestProgressBar(t *testing.T) {
	got := ProgressBar(0.5, 10)
	if strings.Count(got, "█") != 5 || strings.Count(got, "░") != 5 {
		t.Errorf("ProgressBar(0.5, 10) = %q", got)
	}
	if !strings.Contains(got, "50%") {
		t.Errorf("missing percentage: %q", got)
	}
	over := ProgressBar(1.7, 10)
	if strings.Count(over, "█") != 10 {
		t.Errorf("overflow not clamped: %q", over)
	}
}

func TestColorForProgress(t *testing.T) {
	th := theme.Active
	tests := []struct {
		pct  float64
		want lipgloss.Color
	}{
		{0.1, th.Red},
		{0.3, th.Orange},
		{0.6, th.Yellow},
		{0.9, th.Green},
	}
	for _, tt := range tests {
		if got := ColorForProgress(tt.pct); got != string(tt.want) {
			t.Errorf("ColorForProgress(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestGoalBar(t *testing.T) {
	got := GoalBar("FIRE", 0.25, "$300k of $1.2M", 8, 20)
	for _, want := range []string{"FIRE", "25%", "$300k of $1.2M"} {
		if !strings.Contains(got, want) {
			t.Errorf("GoalBar missing %q: %q", want, got)
		}
	}
}

func TestCompactGoalBar_Clamps(t *testing.T) {
	if got := CompactGoalBar("FI", -0.5, 20); !strings.Contains(got, " 0%") {
		t.Errorf("negative pct not clamped: %q", got)
	}
}
