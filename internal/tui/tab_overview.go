package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/tui/components"
	"github.com/theirongolddev/fcast/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	s := a.plan.Summary
	var b strings.Builder

	if a.ledger.Empty() {
		return components.ContentCard("No data",
			fmt.Sprintf("No ledger records found in %s.\nAdd JSONL files there, then press r to reload.", a.ledgerDir), cw)
	}

	// Row 1: headline cards
	net := s.Net.InexactFloat64()
	debtDelta := "debt free"
	if s.LiabilityCount > 0 {
		debtDelta = fmt.Sprintf("%d debts, %s avg", s.LiabilityCount, cli.FormatPercent(s.WeightedDebtRate))
	}
	fireValue, fireDelta := "n/a", "set expenses"
	if a.plan.FIREErr == nil {
		fireValue = cli.FormatPercent(a.plan.FIRE.ProgressPercentage)
		fireDelta = "of " + cli.FormatCompact(a.plan.FIRE.FIRENumber)
	}
	cards := []components.Metric{
		{Label: "Income", Value: cli.FormatMoney(s.TotalIncome.InexactFloat64()), Delta: cli.FormatMoney(s.IncomePerMonth) + "/mo"},
		{Label: "Expenses", Value: cli.FormatMoney(s.TotalExpenses.InexactFloat64()), Delta: cli.FormatMoney(s.ExpensesPerMonth) + "/mo"},
		{Label: "Net", Value: cli.FormatMoney(net), Delta: cli.FormatPercent(s.SavingsRate) + " saved", DeltaColor: t.Signed(net)},
		{Label: "Debt", Value: cli.FormatMoney(s.TotalDebt), Delta: debtDelta},
		{Label: "FIRE Progress", Value: fireValue, Delta: fireDelta},
	}
	if a.isCompactLayout() {
		cards = cards[:4]
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: monthly net chart
	if len(a.months) > 0 {
		n := len(a.months)
		incomeVals := make([]float64, n)
		labels := make([]string, n)
		var nets []float64
		for i, m := range a.months {
			// months are newest first; charts read oldest-left
			j := n - 1 - i
			incomeVals[j] = m.Income.InexactFloat64()
			labels[j] = m.Month.Format("Jan")
		}
		for i := n - 1; i >= 0; i-- {
			nets = append(nets, a.months[i].Net().InexactFloat64())
		}
		halves := components.LayoutRow(cw, 2)
		chartH := 8
		if a.isCompactLayout() {
			chartH = 6
		}
		expenseVals := make([]float64, n)
		for i, m := range a.months {
			expenseVals[n-1-i] = m.Expenses.InexactFloat64()
		}
		incomeCard := components.ContentCard("Monthly Income",
			components.BarChart(incomeVals, labels, components.BarChartOptions{
				Color:  t.Green,
				Width:  components.CardInnerWidth(halves[0]),
				Height: chartH,
			}), halves[0])
		expenseCard := components.ContentCard("Monthly Expenses",
			components.BarChart(expenseVals, labels, components.BarChartOptions{
				Color:  t.Orange,
				Width:  components.CardInnerWidth(halves[1]),
				Height: chartH,
			}), halves[1])
		b.WriteString(components.CardRow([]string{incomeCard, expenseCard}))
		b.WriteString("\n")

		netLine := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("Net by month  ") +
			components.Sparkline(nets, t.Accent)
		b.WriteString(components.ContentCard("", netLine, cw))
		b.WriteString("\n")
	}

	// Row 3: categories + recurring
	halves := components.LayoutRow(cw, 2)
	catCard := components.ContentCard("Top Spending", a.renderCategoryBars(components.CardInnerWidth(halves[0])), halves[0])
	recCard := components.ContentCard("Recurring (monthly)", a.renderRecurring(), halves[1])
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Top Spending", a.renderCategoryBars(components.CardInnerWidth(cw)), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Recurring (monthly)", a.renderRecurring(), cw))
	} else {
		b.WriteString(components.CardRow([]string{catCard, recCard}))
	}

	return b.String()
}

func (a App) renderCategoryBars(innerW int) string {
	t := theme.Active
	cats := a.categories
	if len(cats) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No expenses in this window")
	}

	offset := min(a.scroll[tabOverview], len(cats)-1)
	limit := min(len(cats)-offset, 6)
	shown := cats[offset : offset+limit]

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	numStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	maxShare := 0.0
	for _, c := range cats {
		maxShare = max(maxShare, c.SharePercent)
	}

	nameW := max(innerW/3, 10)
	const numW = 10
	barMax := max(innerW-nameW-numW-6, 1)

	var body strings.Builder
	for _, c := range shown {
		barLen := 0
		if maxShare > 0 {
			barLen = int(c.SharePercent / maxShare * float64(barMax))
		}
		fmt.Fprintf(&body, "%s %s %s %s\n",
			nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(c.Category, nameW))),
			barStyle.Render(fmt.Sprintf("%-*s", barMax, strings.Repeat("█", barLen))),
			numStyle.Render(fmt.Sprintf("%*s", numW, cli.FormatMoney(c.Total.InexactFloat64()))),
			trendGlyph(c))
	}
	if len(cats) > limit {
		fmt.Fprintf(&body, "%s", numStyle.Render(fmt.Sprintf("%d of %d  [j/k] scroll", offset+limit, len(cats))))
	}
	return strings.TrimRight(body.String(), "\n")
}

// trendGlyph marks spend rising (bad) or falling (good) vs the prior window.
func trendGlyph(c model.CategoryStats) string {
	t := theme.Active
	switch c.TrendDirection {
	case 1:
		return lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render("▲")
	case -1:
		return lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Render("▼")
	}
	return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("·")
}

func (a App) renderRecurring() string {
	t := theme.Active
	s := a.plan.Summary
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	net := s.RecurringIncome - s.RecurringExpenses
	netStyle := lipgloss.NewStyle().Foreground(t.Signed(net)).Background(t.Surface).Bold(true)

	rows := []struct {
		label string
		value string
		style lipgloss.Style
	}{
		{"Income", cli.FormatMoney(s.RecurringIncome), valueStyle},
		{"Expenses", cli.FormatMoney(s.RecurringExpenses), valueStyle},
		{"Net", cli.FormatMoney(net), netStyle},
		{"Min. debt payments", cli.FormatMoney(s.TotalMinPayments), valueStyle},
		{"Active months", fmt.Sprintf("%d", s.ActiveMonths), valueStyle},
	}
	var body strings.Builder
	for i, r := range rows {
		body.WriteString(labelStyle.Render(fmt.Sprintf("%-20s", r.label)))
		body.WriteString(r.style.Render(r.value))
		if i < len(rows)-1 {
			body.WriteString("\n")
		}
	}
	return body.String()
}
