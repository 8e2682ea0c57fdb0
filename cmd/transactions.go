package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/pipeline"
)

var transactionsCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"tx"},
	Short:   "Recent income and expense records",
	RunE:    runTransactions,
}

var transactionsLimit int

func init() {
	transactionsCmd.Flags().IntVarP(&transactionsLimit, "limit", "l", 20, "Number of records to show")
	rootCmd.AddCommand(transactionsCmd)
}

func runTransactions(_ *cobra.Command, _ []string) error {
	result, err := loadData()
	if err != nil {
		return err
	}

	since, until := window()
	txns := pipeline.FilterByTime(applyFilters(result.Ledger).Transactions(), since, until)
	if len(txns) == 0 {
		fmt.Println("\n  No records in the selected window.")
		return nil
	}

	slices.SortStableFunc(txns, func(a, b model.Transaction) int {
		return b.Date.Compare(a.Date)
	})

	total := len(txns)
	if transactionsLimit > 0 && len(txns) > transactionsLimit {
		txns = txns[:transactionsLimit]
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TRANSACTIONS  Last %dmo (showing %d of %d)", flagMonths, len(txns), total)))
	fmt.Println()

	rows := make([][]string, 0, len(txns))
	for _, t := range txns {
		amount := cli.FormatDecimal(t.Amount)
		if t.Kind == model.KindExpense {
			amount = "-" + amount
		}
		rec := ""
		if t.IsRecurring() {
			rec = string(t.Recurrence)
		}
		rows = append(rows, []string{
			t.Date.Format("2006-01-02"),
			truncate(t.Description, 24),
			truncate(t.Category, 14),
			truncate(t.Account, 12),
			rec,
			amount,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Description", "Category", "Account", "Repeats", "Amount"},
		Rows:    rows,
	}))
	return nil
}
