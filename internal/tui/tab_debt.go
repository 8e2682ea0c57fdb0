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

func (a App) renderDebtTab(cw, h int) string {
	t := theme.Active
	var b strings.Builder

	if a.plan.DebtErr != nil {
		return components.ContentCard("Debt", "Cannot simulate payoff: "+a.plan.DebtErr.Error(), cw)
	}
	s := a.debtStrategy()
	if s.DebtFree {
		return components.ContentCard("Debt", "No outstanding liabilities. You are debt free!", cw)
	}

	extraDelta := "[+/-] adjust"
	if a.extraPayment != a.opts.ExtraPayment {
		extraDelta = "config " + cli.FormatMoney(a.opts.ExtraPayment) + ", [0] reset"
	}
	debtFree := cli.FormatMonth(s.DebtFreeDate)
	if !s.Complete {
		debtFree = "not within 50y"
	}
	cards := []components.Metric{
		{Label: "Total Debt", Value: cli.FormatMoney(s.TotalDebt), Delta: fmt.Sprintf("%d debts", len(s.PayoffOrder))},
		{Label: "Debt Free", Value: debtFree, Delta: cli.FormatMonths(s.TotalMonths)},
		{Label: "Interest", Value: cli.FormatMoney(s.TotalInterestPaid), DeltaColor: t.Red, Delta: "over the plan"},
		{Label: "Extra / mo", Value: cli.FormatMoney(a.extraPayment), Delta: extraDelta},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	viewLabel := titleStyle.Render(strings.ToUpper(s.Name)) + dimStyle.Render("  "+s.Description+"  [s] switch")

	// Leave room for the cards above and the comparison below.
	rows := max(h-lipgloss.Height(b.String())-12, 3)
	b.WriteString(components.ContentCard("", viewLabel+"\n"+a.renderPayoffTable(s, components.CardInnerWidth(cw), rows), cw))
	b.WriteString("\n")

	b.WriteString(a.renderDebtComparison(cw))

	if len(s.Warnings) > 0 {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		var wb strings.Builder
		for i, w := range s.Warnings {
			wb.WriteString(warnStyle.Render("! " + w))
			if i < len(s.Warnings)-1 {
				wb.WriteString("\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Warnings", wb.String(), cw))
	}
	return b.String()
}

func (a App) renderPayoffTable(s model.DebtStrategy, innerW, maxRows int) string {
	t := theme.Active
	headerStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	const (
		balW  = 11
		rateW = 7
		minW  = 9
		dateW = 10
		intW  = 11
	)
	nameW := max(innerW-balW-rateW-minW-dateW-intW-7, 8)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s",
		nameW, "#  Debt", balW, "Balance", rateW, "Rate", minW, "Minimum", dateW, "Paid Off", intW, "Interest")))
	b.WriteString("\n")

	offset := min(a.scroll[tabDebt], max(len(s.PayoffOrder)-1, 0))
	end := min(len(s.PayoffOrder), offset+maxRows)
	for i := offset; i < end; i++ {
		item := s.PayoffOrder[i]
		paid := cli.FormatMonth(item.PayoffDate)
		if !item.Resolved {
			paid = "never"
		}
		line := fmt.Sprintf("%-*s %*s %*s %*s %*s %*s",
			nameW, truncStr(fmt.Sprintf("%d. %s", i+1, item.Name), nameW),
			balW, cli.FormatMoney(item.Balance),
			rateW, cli.FormatPercent(item.InterestRate),
			minW, cli.FormatMoney(item.MinimumPayment),
			dateW, paid,
			intW, cli.FormatMoney(item.TotalInterestPaid))
		style := rowStyle
		if i == offset && a.scroll[tabDebt] > 0 {
			style = selStyle
		}
		b.WriteString(style.Render(line))
		if item.Warning != "" {
			b.WriteString(warnStyle.Render(" !"))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if len(s.PayoffOrder) > maxRows {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d-%d of %d  [j/k] scroll", offset+1, end, len(s.PayoffOrder))))
	}
	return b.String()
}

func (a App) renderDebtComparison(cw int) string {
	t := theme.Active
	c := a.plan.Debt
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	winStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface).Bold(true)

	line := func(s model.DebtStrategy) string {
		style := valueStyle
		mark := "  "
		if s.Name == c.Recommended {
			style = winStyle
			mark = "★ "
		}
		return style.Render(fmt.Sprintf("%s%-10s", mark, s.Name)) +
			labelStyle.Render("  debt free ") + valueStyle.Render(fmt.Sprintf("%-9s", cli.FormatMonth(s.DebtFreeDate))) +
			labelStyle.Render("  in ") + valueStyle.Render(fmt.Sprintf("%-7s", cli.FormatMonths(s.TotalMonths))) +
			labelStyle.Render("  interest ") + valueStyle.Render(cli.FormatMoney(s.TotalInterestPaid))
	}

	body := line(c.Avalanche) + "\n" + line(c.Snowball)
	if c.InterestSaved > 0 || c.MonthsSaved > 0 {
		body += "\n" + labelStyle.Render(fmt.Sprintf("%s saves %s in interest and %s",
			c.Recommended, cli.FormatMoney(c.InterestSaved), cli.FormatMonths(c.MonthsSaved)))
	}
	return components.ContentCard("Avalanche vs Snowball", body, cw)
}
