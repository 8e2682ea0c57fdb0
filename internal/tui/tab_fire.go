package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/tui/components"
	"github.com/theirongolddev/fcast/internal/tui/theme"
)

func (a App) renderFIRETab(cw, h int) string {
	t := theme.Active
	if a.plan.FIREErr != nil {
		return components.ContentCard("FIRE",
			"Cannot project FIRE: "+a.plan.FIREErr.Error()+
				"\nSet monthly_expenses in config or record expenses in the ledger.", cw)
	}
	r := a.plan.FIRE
	in := a.opts.FIRE
	var b strings.Builder

	reach := cli.FormatYears(r.YearsToFIRE)
	reachDelta := fmt.Sprintf("at age %.1f", r.ProjectedRetirementAge)
	if !r.Reachable {
		reach, reachDelta = "n/a", "not by age 100"
	}
	trackDelta, trackColor := "on track", t.GreenBright
	if !r.OnTrack {
		trackDelta, trackColor = "need "+cli.FormatMoney(r.MonthlySavingsNeeded)+"/mo", t.Orange
	}
	cards := []components.Metric{
		{Label: "FIRE Number", Value: cli.FormatMoney(r.FIRENumber), Delta: cli.FormatMoney(r.InflationAdjustedFIRENumber) + " nominal"},
		{Label: "Progress", Value: cli.FormatPercent(r.ProgressPercentage), Delta: "of target"},
		{Label: "Time to FIRE", Value: reach, Delta: reachDelta},
		{Label: "Savings Rate", Value: cli.FormatPercent(r.CurrentSavingsRate), Delta: trackDelta, DeltaColor: trackColor},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Goal bars for each target
	savings := in.CurrentSavings
	innerW := components.CardInnerWidth(cw)
	barW := max(min(innerW-50, 60), 10)
	goals := []struct {
		label  string
		target float64
	}{
		{"Lean FIRE", r.LeanFIRENumber},
		{"FIRE", r.FIRENumber},
		{"Fat FIRE", r.FatFIRENumber},
		{"Coast (" + strconv.Itoa(r.CoastReferenceAge) + ")", r.CoastFIRENumber},
	}
	var gb strings.Builder
	for i, g := range goals {
		pct := 0.0
		if g.target > 0 {
			pct = savings / g.target
		}
		gb.WriteString(components.GoalBar(g.label, pct,
			cli.FormatCompact(savings)+" of "+cli.FormatCompact(g.target), 12, barW))
		if i < len(goals)-1 {
			gb.WriteString("\n")
		}
	}
	b.WriteString(components.ContentCard("Targets", gb.String(), cw))
	b.WriteString("\n")

	// Projection chart + table
	proj := r.YearlyProjections
	if len(proj) == 0 {
		return b.String()
	}
	vals := make([]float64, len(proj))
	labels := make([]string, len(proj))
	for i, p := range proj {
		vals[i] = p.Savings
		labels[i] = strconv.Itoa(p.Age)
	}
	halves := components.LayoutRow(cw, 2)
	chartCard := components.ContentCard("Projected Savings by Age",
		components.BarChart(vals, labels, components.BarChartOptions{
			Color:  t.Blue,
			Width:  components.CardInnerWidth(halves[0]),
			Height: 8,
		}), halves[0])

	rows := max(h-lipgloss.Height(b.String())-4, 3)
	tableCard := components.ContentCard("Year by Year", a.renderProjectionTable(rows), halves[1])

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Year by Year", a.renderProjectionTable(rows), cw))
	} else {
		b.WriteString(components.CardRow([]string{chartCard, tableCard}))
	}
	return b.String()
}

func (a App) renderProjectionTable(maxRows int) string {
	t := theme.Active
	proj := a.plan.FIRE.YearlyProjections
	headerStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	doneStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-6s %-4s %12s %8s", "Year", "Age", "Savings", "Target")))

	offset := min(a.scroll[tabFIRE], max(len(proj)-1, 0))
	end := min(len(proj), offset+maxRows)
	for _, p := range proj[offset:end] {
		style := rowStyle
		if p.PercentComplete >= 100 {
			style = doneStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(fmt.Sprintf("%-6d %-4d %12s %8s",
			p.Year, p.Age, cli.FormatMoney(p.Savings), cli.FormatPercent(p.PercentComplete))))
	}
	if len(proj) > maxRows {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d-%d of %d  [j/k] scroll", offset+1, end, len(proj))))
	}
	return b.String()
}
