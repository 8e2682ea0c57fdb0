package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/pipeline"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Spending (or income) by category",
	RunE:  runCategories,
}

var flagCategoriesIncome bool

func init() {
	categoriesCmd.Flags().BoolVar(&flagCategoriesIncome, "income", false, "Break down income instead of expenses")
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	led := applyFilters(result.Ledger)
	txns, label := led.Expenses, "EXPENSES"
	if flagCategoriesIncome {
		txns, label = led.Income, "INCOME"
	}

	since, until := window()
	cats := pipeline.CompareCategories(txns, since, until)
	if len(cats) == 0 {
		fmt.Println("\n  No records in the selected window.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s BY CATEGORY  Last %dmo", label, flagMonths)))
	fmt.Println()

	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{
			truncate(c.Category, 20),
			cli.FormatNumber(int64(c.Count)),
			cli.FormatDecimal(c.Total),
			cli.FormatPercent(c.SharePercent),
			trendArrow(c.TrendDirection),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Category", "Records", "Total", "Share", "Trend"},
		Rows:    rows,
	}))

	top := cats
	if len(top) > 5 {
		top = top[:5]
	}
	maxTotal := top[0].Total.InexactFloat64()
	for _, c := range top {
		fmt.Println(cli.RenderHorizontalBar(fmt.Sprintf("%-20s", truncate(c.Category, 20)), c.Total.InexactFloat64(), maxTotal, 30))
	}
	fmt.Println()
	return nil
}

func trendArrow(dir int) string {
	switch {
	case dir > 0:
		return "↑"
	case dir < 0:
		return "↓"
	default:
		return "→"
	}
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
