package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/pipeline"
)

var monthlyCmd = &cobra.Command{
	Use:   "monthly",
	Short: "Monthly income and expense table",
	RunE:  runMonthly,
}

func init() {
	rootCmd.AddCommand(monthlyCmd)
}

func runMonthly(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	if result.Ledger.Empty() {
		fmt.Println("\n  No ledger records found.")
		return nil
	}

	since, until := window()
	months := pipeline.AggregateMonths(applyFilters(result.Ledger), since, until)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("MONTHLY CASH FLOW  Last %dmo", flagMonths)))
	fmt.Println()

	rows := make([][]string, 0, len(months))
	nets := make([]float64, len(months))
	for i, m := range months {
		rows = append(rows, []string{
			m.Month.Format("Jan 2006"),
			cli.FormatNumber(int64(m.Transactions)),
			cli.FormatDecimal(m.Income),
			cli.FormatDecimal(m.Expenses),
			cli.FormatDecimal(m.Net()),
		})
		// Sparkline reads oldest to newest.
		nets[len(months)-1-i] = m.Net().InexactFloat64()
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Records", "Income", "Expenses", "Net"},
		Rows:    rows,
	}))
	fmt.Printf("  Net trend  %s\n\n", cli.RenderSparkline(nets))
	return nil
}
