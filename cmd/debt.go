package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

var debtCmd = &cobra.Command{
	Use:   "debt",
	Short: "Debt payoff plan (avalanche vs snowball)",
	RunE:  runDebt,
}

var (
	flagDebtExtra    float64
	flagDebtStrategy string
)

func init() {
	debtCmd.Flags().Float64VarP(&flagDebtExtra, "extra", "e", 0, "Extra monthly payment on top of minimums (default from config)")
	debtCmd.Flags().StringVarP(&flagDebtStrategy, "strategy", "s", "", "avalanche, snowball or compare (default from config)")
	rootCmd.AddCommand(debtCmd)
}

func runDebt(cmd *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}
	liabilities := applyFilters(result.Ledger).Liabilities

	extra := cfg.Debt.ExtraMonthlyPayment
	if cmd.Flags().Changed("extra") {
		extra = flagDebtExtra
	}
	strategy := cfg.Debt.Strategy
	if flagDebtStrategy != "" {
		strategy = flagDebtStrategy
	}
	strategy = strings.ToLower(strings.TrimSpace(strategy))

	if strategy == "" || strategy == "compare" {
		cmp, err := forecast.Compare(liabilities, extra, asOf)
		if err != nil {
			return fmt.Errorf("debt plan: %w", err)
		}
		renderStrategy(cmp.RecommendedStrategy())
		renderComparison(cmp)
		return nil
	}

	policy, err := forecast.ParsePolicy(strategy)
	if err != nil {
		return err
	}
	plan, err := forecast.Simulate(liabilities, extra, policy, asOf)
	if err != nil {
		return fmt.Errorf("debt plan: %w", err)
	}
	renderStrategy(plan)
	return nil
}

func renderStrategy(s model.DebtStrategy) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DEBT PAYOFF  %s  +%s/mo", strings.ToUpper(s.Name), cli.FormatMoney(s.ExtraPayment))))
	fmt.Println()

	if s.DebtFree {
		fmt.Println("  No outstanding liabilities. You are debt free!")
		fmt.Println()
		return
	}

	fmt.Printf("  %s\n\n", s.Description)

	rows := make([][]string, 0, len(s.PayoffOrder)+2)
	for i, item := range s.PayoffOrder {
		paidOff := cli.FormatMonth(item.PayoffDate)
		if !item.Resolved {
			paidOff = "not within 50y"
		}
		minOnly := "never"
		if item.MinimumOnlyMonths > 0 {
			minOnly = cli.FormatMonths(item.MinimumOnlyMonths)
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d. %s", i+1, truncate(item.Name, 20)),
			cli.FormatMoney(item.Balance),
			cli.FormatPercent(item.InterestRate),
			cli.FormatMoney(item.MinimumPayment),
			paidOff,
			minOnly,
			cli.FormatMoney(item.TotalInterestPaid),
		})
	}
	debtFree := cli.FormatMonth(s.DebtFreeDate)
	if s.Complete {
		debtFree += " (" + cli.FormatMonths(s.TotalMonths) + ")"
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"TOTAL", cli.FormatMoney(s.TotalDebt), "", "", debtFree, "", cli.FormatMoney(s.TotalInterestPaid)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Debt", "Balance", "Rate", "Minimum", "Paid Off", "Min Only", "Interest"},
		Rows:    rows,
	}))

	if len(s.Warnings) > 0 {
		fmt.Println()
		fmt.Print(cli.RenderWarnings(s.Warnings))
	}
	fmt.Println()
}

func renderComparison(c model.DebtComparison) {
	if c.Avalanche.DebtFree {
		return
	}
	rows := [][]string{
		{"Avalanche", cli.FormatMonths(c.Avalanche.TotalMonths), cli.FormatMoney(c.Avalanche.TotalInterestPaid), cli.FormatMonth(c.Avalanche.DebtFreeDate)},
		{"Snowball", cli.FormatMonths(c.Snowball.TotalMonths), cli.FormatMoney(c.Snowball.TotalInterestPaid), cli.FormatMonth(c.Snowball.DebtFreeDate)},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Strategy Comparison",
		Headers: []string{"Strategy", "Duration", "Interest", "Debt Free"},
		Rows:    rows,
	}))

	fmt.Printf("  Recommended: %s", c.Recommended)
	if c.InterestSaved > 0 {
		fmt.Printf(" (saves %s in interest", cli.FormatMoney(c.InterestSaved))
		if c.MonthsSaved > 0 {
			fmt.Printf(" and %s", cli.FormatMonths(c.MonthsSaved))
		}
		fmt.Print(")")
	}
	fmt.Print("\n\n")
}
