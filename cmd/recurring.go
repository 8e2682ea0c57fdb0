package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

var recurringCmd = &cobra.Command{
	Use:   "recurring",
	Short: "Active recurring income and expenses as monthly equivalents",
	RunE:  runRecurring,
}

func init() {
	rootCmd.AddCommand(recurringCmd)
}

func runRecurring(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	led := applyFilters(result.Ledger)

	income := forecast.RecurringSeries(led.Income, asOf)
	expenses := forecast.RecurringSeries(led.Expenses, asOf)
	if len(income) == 0 && len(expenses) == 0 {
		fmt.Println("\n  No active recurring records.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("RECURRING  as of %s", asOf.Format("Jan 2006"))))
	fmt.Println()

	maxMonthly := 0.0
	for _, t := range append(append([]model.Transaction{}, income...), expenses...) {
		maxMonthly = max(maxMonthly, forecast.MonthlyEquivalent(t).InexactFloat64())
	}

	printSeries := func(title string, series []model.Transaction) float64 {
		if len(series) == 0 {
			return 0
		}
		fmt.Printf("  %s\n", title)
		total := 0.0
		for _, t := range series {
			monthly := forecast.MonthlyEquivalent(t).InexactFloat64()
			total += monthly
			label := fmt.Sprintf("%-22s %-9s", truncate(t.Description, 22), t.Recurrence)
			fmt.Println(cli.RenderHorizontalBar(label, monthly, maxMonthly, 30))
		}
		fmt.Printf("  %-32s %s/mo\n\n", "Total", cli.FormatMoney(total))
		return total
	}

	in := printSeries("Income", income)
	out := printSeries("Expenses", expenses)
	fmt.Printf("  Recurring net: %s/mo\n\n", cli.RenderSigned(in-out, cli.FormatMoney(in-out)))
	return nil
}
