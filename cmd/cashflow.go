package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

var cashflowCmd = &cobra.Command{
	Use:   "cashflow",
	Short: "Trend-based cash-flow projection",
	RunE:  runCashFlow,
}

var (
	flagCashLookback int
	flagCashHorizon  int
)

func init() {
	cashflowCmd.Flags().IntVar(&flagCashLookback, "lookback", 0, "History months to fit (default from config)")
	cashflowCmd.Flags().IntVar(&flagCashHorizon, "horizon", 0, "Months to project (default from config)")
	rootCmd.AddCommand(cashflowCmd)
}

func runCashFlow(cmd *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	led := applyFilters(result.Ledger)

	opts := planOptions()
	if cmd.Flags().Changed("lookback") {
		opts.LookbackMonths = flagCashLookback
	}
	if cmd.Flags().Changed("horizon") {
		opts.HorizonMonths = flagCashHorizon
	}

	proj, err := forecast.ProjectCashFlow(led.Income, led.Expenses, forecast.CashFlowOptions{
		AsOf:           opts.AsOf,
		LookbackMonths: opts.LookbackMonths,
		HorizonMonths:  opts.HorizonMonths,
		Heuristics:     opts.Heuristics,
	})
	if errors.Is(err, forecast.ErrInsufficientHistory) {
		fmt.Printf("\n  Not enough history to forecast: %v\n", err)
		fmt.Println("  Record at least two months of income or expenses, or widen --lookback.")
		fmt.Println()
		return nil
	}
	if err != nil {
		return fmt.Errorf("cash-flow forecast: %w", err)
	}

	renderCashFlow(proj)
	return nil
}

func renderCashFlow(p model.CashFlowProjection) {
	ins := p.Insights

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CASH FLOW  %d months ahead", len(p.Projected()))))
	fmt.Println()

	rows := make([][]string, 0, len(p.ProjectionData)+1)
	nets := make([]float64, 0, len(p.ProjectionData))
	inHistory := true
	for _, pt := range p.ProjectionData {
		if pt.IsProjected && inHistory {
			rows = append(rows, []string{"---"})
			inHistory = false
		}
		conf := "actual"
		if pt.IsProjected {
			conf = fmt.Sprintf("%.0f%%", pt.Confidence)
		}
		rows = append(rows, []string{
			pt.MonthLabel,
			cli.FormatMoney(pt.ProjectedIncome),
			cli.FormatMoney(pt.ProjectedExpenses),
			cli.FormatMoney(pt.NetCashFlow),
			cli.FormatMoney(pt.CumulativeBalance),
			conf,
		})
		nets = append(nets, pt.CumulativeBalance)
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Income", "Expenses", "Net", "Cumulative", "Confidence"},
		Rows:    rows,
	}))
	fmt.Printf("  Balance  %s\n\n", cli.RenderSparkline(nets))

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Insights",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Projected income", cli.FormatMoney(ins.TotalProjectedIncome)},
			{"Projected expenses", cli.FormatMoney(ins.TotalProjectedExpenses)},
			{"Avg monthly savings", cli.RenderSigned(ins.AvgMonthlySavings, cli.FormatMoney(ins.AvgMonthlySavings))},
			{"Savings rate", cli.FormatPercent(ins.SavingsRate)},
			{"Negative months", fmt.Sprintf("%d", ins.NegativeMonths)},
			{"Balance range", cli.FormatMoney(ins.MinCumulativeBalance) + " to " + cli.FormatMoney(ins.MaxCumulativeBalance)},
			{"Year-end balance", cli.FormatMoney(ins.EndOfYearBalance)},
			{"Income trend", fmt.Sprintf("%s (%s/mo)", ins.IncomeTrend, cli.FormatMoney(ins.IncomeSlope))},
			{"Expense trend", fmt.Sprintf("%s (%s/mo)", ins.ExpenseTrend, cli.FormatMoney(ins.ExpenseSlope))},
		},
	}))
	fmt.Println()
}
