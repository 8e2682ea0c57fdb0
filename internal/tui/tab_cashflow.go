package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/tui/components"
	"github.com/theirongolddev/fcast/internal/tui/theme"
)

func (a App) renderCashFlowTab(cw, h int) string {
	t := theme.Active
	if err := a.plan.CashFlowErr; err != nil {
		msg := "Cannot forecast: " + err.Error()
		if errors.Is(err, forecast.ErrInsufficientHistory) {
			msg = "Not enough history to forecast yet.\nRecord at least two months of income or expenses."
		}
		return components.ContentCard("Cash Flow", msg, cw)
	}

	p := a.plan.CashFlow
	ins := p.Insights
	var b strings.Builder

	negColor := t.GreenBright
	if ins.NegativeMonths > 0 {
		negColor = t.Red
	}
	cards := []components.Metric{
		{Label: "Avg Monthly Savings", Value: cli.FormatMoney(ins.AvgMonthlySavings), Delta: cli.FormatPercent(ins.SavingsRate) + " of income", DeltaColor: t.Signed(ins.AvgMonthlySavings)},
		{Label: "Year-End Balance", Value: cli.FormatMoney(ins.EndOfYearBalance), Delta: "range " + cli.FormatCompact(ins.MinCumulativeBalance) + " to " + cli.FormatCompact(ins.MaxCumulativeBalance)},
		{Label: "Negative Months", Value: fmt.Sprintf("%d", ins.NegativeMonths), Delta: fmt.Sprintf("of %d projected", len(p.Projected())), DeltaColor: negColor},
		{Label: "Trends", Value: fmt.Sprintf("in %s, out %s", ins.IncomeTrend, ins.ExpenseTrend), Delta: fmt.Sprintf("%d months of history", ins.ValidMonths)},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Charts: history solid, projection dimmed
	n := len(p.ProjectionData)
	income := make([]float64, n)
	expenses := make([]float64, n)
	cumulative := make([]float64, n)
	labels := make([]string, n)
	projFrom := 0
	for i, pt := range p.ProjectionData {
		income[i] = pt.ProjectedIncome
		expenses[i] = pt.ProjectedExpenses
		cumulative[i] = pt.CumulativeBalance
		labels[i] = pt.MonthLabel[:3]
		if pt.IsProjected && projFrom == 0 {
			projFrom = i
		}
	}
	halves := components.LayoutRow(cw, 2)
	chartH := 8
	if a.isCompactLayout() {
		chartH = 6
	}
	incomeCard := components.ContentCard("Income (dim = projected)",
		components.BarChart(income, labels, components.BarChartOptions{
			Color:          t.Green,
			ProjectedFrom:  projFrom,
			ProjectedColor: t.TextMuted,
			Width:          components.CardInnerWidth(halves[0]),
			Height:         chartH,
		}), halves[0])
	expenseCard := components.ContentCard("Expenses (dim = projected)",
		components.BarChart(expenses, labels, components.BarChartOptions{
			Color:          t.Orange,
			ProjectedFrom:  projFrom,
			ProjectedColor: t.TextMuted,
			Width:          components.CardInnerWidth(halves[1]),
			Height:         chartH,
		}), halves[1])
	b.WriteString(components.CardRow([]string{incomeCard, expenseCard}))
	b.WriteString("\n")

	balLine := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("Cumulative balance  ") +
		components.Sparkline(cumulative, t.Accent)
	b.WriteString(components.ContentCard("", balLine, cw))
	b.WriteString("\n")

	rows := max(h-lipgloss.Height(b.String())-4, 3)
	b.WriteString(components.ContentCard("Month by Month", a.renderCashFlowTable(rows), cw))
	return b.String()
}

func (a App) renderCashFlowTable(maxRows int) string {
	t := theme.Active
	data := a.plan.CashFlow.ProjectionData
	headerStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	histStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	projStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-9s %11s %11s %11s %12s %10s",
		"Month", "Income", "Expenses", "Net", "Cumulative", "Confidence")))

	offset := min(a.scroll[tabCashFlow], max(len(data)-1, 0))
	end := min(len(data), offset+maxRows)
	for _, pt := range data[offset:end] {
		style := histStyle
		conf := "actual"
		if pt.IsProjected {
			style = projStyle
			conf = fmt.Sprintf("%.0f%%", pt.Confidence)
		}
		netStyle := lipgloss.NewStyle().Foreground(t.Signed(pt.NetCashFlow)).Background(t.Surface)
		b.WriteString("\n")
		b.WriteString(style.Render(fmt.Sprintf("%-9s %11s %11s ",
			pt.MonthLabel, cli.FormatMoney(pt.ProjectedIncome), cli.FormatMoney(pt.ProjectedExpenses))))
		b.WriteString(netStyle.Render(fmt.Sprintf("%11s", cli.FormatMoney(pt.NetCashFlow))))
		b.WriteString(style.Render(fmt.Sprintf(" %12s %10s", cli.FormatMoney(pt.CumulativeBalance), conf)))
	}
	if len(data) > maxRows {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d-%d of %d  [j/k] scroll", offset+1, end, len(data))))
	}
	return b.String()
}
