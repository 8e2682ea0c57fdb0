package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fcast/internal/tui/theme"
)

// StatusInfo is what the bottom bar reports about the loaded data.
type StatusInfo struct {
	DataAge     string
	Records     int
	Refreshing  bool
	AutoRefresh bool
	// FIREProgress is a 0-1 fraction; negative hides the indicator.
	FIREProgress float64
	Warning      string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	barStyle := lipgloss.NewStyle().Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)
	liveStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)

	left := hintStyle.Render(" [?]help  [r]efresh  [q]uit")
	if info.Warning != "" {
		left += dimStyle.Render("  ") + warnStyle.Render("! "+info.Warning)
	}

	var middle string
	if info.FIREProgress >= 0 {
		middle = CompactGoalBar("FI", info.FIREProgress, 22)
	}

	var right []string
	switch {
	case info.Refreshing:
		right = append(right, liveStyle.Render("refreshing…"))
	case info.AutoRefresh:
		right = append(right, liveStyle.Render("● auto"))
	}
	if info.DataAge != "" {
		right = append(right, dimStyle.Render("loaded in "+info.DataAge))
	}
	rightStr := strings.Join(right, dimStyle.Render("  ")) + barStyle.Render(" ")

	used := lipgloss.Width(left) + lipgloss.Width(middle) + lipgloss.Width(rightStr)
	if used > width {
		middle = ""
		used = lipgloss.Width(left) + lipgloss.Width(rightStr)
	}
	pad := max(width-used, 0)
	leftPad := pad / 2
	bar := left + barStyle.Render(strings.Repeat(" ", leftPad)) + middle +
		barStyle.Render(strings.Repeat(" ", pad-leftPad)) + rightStr

	return lipgloss.NewStyle().Background(t.Surface).MaxWidth(width).Render(bar)
}
