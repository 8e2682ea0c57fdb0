package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Income, spending and debt summary for the window",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	if result.Ledger.Empty() {
		fmt.Printf("\n  No ledger records found in %s.\n", flagLedgerDir)
		fmt.Println("  Add *.jsonl files with income, expense and liability records, then come back!")
		return nil
	}

	led := applyFilters(result.Ledger)
	since, until := window()
	cmp := pipeline.ComparePeriods(led, since, until)
	stats, prev := cmp.Current, cmp.Previous

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("LEDGER SUMMARY  %s to %s",
		since.Format("Jan 2006"), until.AddDate(0, -1, 0).Format("Jan 2006"))))
	fmt.Println()

	perMonth := func(cur, before float64) string {
		s := cli.FormatMoney(cur) + "/mo"
		if before > 0 {
			s += fmt.Sprintf("  (%s vs prev %dmo)", cli.FormatDelta(cur, before), flagMonths)
		}
		return s
	}

	rows := [][]string{
		{"Income", cli.FormatDecimal(stats.TotalIncome)},
		{"Expenses", cli.FormatDecimal(stats.TotalExpenses)},
		{"Net", cli.FormatDecimal(stats.Net)},
		{"Savings Rate", cli.FormatPercent(stats.SavingsRate)},
		{"---"},
		{"Income/month", perMonth(stats.IncomePerMonth, prev.IncomePerMonth)},
		{"Expenses/month", perMonth(stats.ExpensesPerMonth, prev.ExpensesPerMonth)},
		{"Recurring Income", cli.FormatMoney(stats.RecurringIncome) + "/mo"},
		{"Recurring Expenses", cli.FormatMoney(stats.RecurringExpenses) + "/mo"},
		{"---"},
		{"Records", fmt.Sprintf("%d income, %d expense", stats.IncomeCount, stats.ExpenseCount)},
		{"Active Months", fmt.Sprintf("%d of %d", stats.ActiveMonths, flagMonths)},
	}
	if stats.LiabilityCount > 0 {
		rows = append(rows,
			[]string{"---"},
			[]string{"Debt", fmt.Sprintf("%s across %d", cli.FormatMoney(stats.TotalDebt), stats.LiabilityCount)},
			[]string{"Minimum Payments", cli.FormatMoney(stats.TotalMinPayments) + "/mo"},
			[]string{"Weighted Rate", cli.FormatPercent(stats.WeightedDebtRate)},
		)
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	return nil
}
