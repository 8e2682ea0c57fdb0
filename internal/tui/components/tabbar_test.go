package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTabIdxByKey(t *testing.T) {
	tests := []struct {
		key  rune
		want int
	}{
		{'o', 0},
		{'d', 1},
		{'f', 2},
		{'c', 3},
		{'x', 4},
		{'z', -1},
	}
	for _, tt := range tests {
		if got := TabIdxByKey(tt.key); got != tt.want {
			t.Errorf("TabIdxByKey(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestTabVisualWidth(t *testing.T) {
	for i, tab := range Tabs {
		w := TabVisualWidth(tab, false)
		want := len(tab.Name) + 2
		if tab.KeyPos < 0 {
			want += 3
		}
		if w != want {
			t.Errorf("tab %d inactive width = %d, want %d", i, w, want)
		}
		if aw := TabVisualWidth(tab, true); aw != len(tab.Name)+2 {
			t.Errorf("tab %d active width = %d", i, aw)
		}
	}
}

func TestRenderTabBar(t *testing.T) {
	bar := RenderTabBar(1, 80)
	if lipgloss.Width(bar) != 80 {
		t.Errorf("tab bar width = %d, want 80", lipgloss.Width(bar))
	}
	for _, tab := range Tabs {
		if !strings.Contains(bar, tab.Name[1:]) {
			t.Errorf("tab bar missing %q", tab.Name)
		}
	}
}

func TestRenderStatusBar(t *testing.T) {
	bar := RenderStatusBar(100, StatusInfo{DataAge: "0.2s", AutoRefresh: true, FIREProgress: 0.4, Warning: "2 bad lines"})
	for _, want := range []string{"[q]uit", "2 bad lines", "0.2s", "FI"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar missing %q", want)
		}
	}
	if w := lipgloss.Width(bar); w > 100 {
		t.Errorf("status bar width = %d, exceeds 100", w)
	}
}
