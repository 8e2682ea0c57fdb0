package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fcast/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Ledger directory: %s\n", config.GetLedgerDir(cfg))
	fmt.Println()

	fmt.Println("  [Debt]")
	fmt.Printf("    Extra payment: $%.2f/mo\n", cfg.Debt.ExtraMonthlyPayment)
	fmt.Printf("    Strategy:      %s\n", cfg.Debt.Strategy)
	fmt.Println()

	in := cfg.FIRE.Inputs()
	fmt.Println("  [FIRE]")
	fmt.Printf("    Age:             %d (target %d)\n", in.CurrentAge, in.TargetRetirementAge)
	fmt.Printf("    Current savings: $%.0f\n", in.CurrentSavings)
	if in.MonthlyExpenses > 0 {
		fmt.Printf("    Expenses:        $%.0f/mo\n", in.MonthlyExpenses)
	} else {
		fmt.Println("    Expenses:        from ledger")
	}
	if cfg.FIRE.MonthlySavings != nil {
		fmt.Printf("    Savings:         $%.0f/mo\n", *cfg.FIRE.MonthlySavings)
	} else {
		fmt.Println("    Savings:         from ledger")
	}
	fmt.Printf("    Preset:          %s\n", config.NormalizePresetName(cfg.FIRE.Preset))
	fmt.Printf("    Return:          %.2f%%\n", in.ExpectedAnnualReturn)
	fmt.Printf("    Inflation:       %.2f%%\n", in.InflationRate)
	fmt.Printf("    Withdrawal:      %.2f%%\n", in.WithdrawalRate)
	fmt.Println()

	h := cfg.CashFlow.Heuristics
	fmt.Println("  [Cash Flow]")
	fmt.Printf("    Lookback: %d months\n", cfg.CashFlow.LookbackMonths)
	fmt.Printf("    Horizon:  %d months\n", cfg.CashFlow.HorizonMonths)
	fmt.Printf("    Recurring income weight: %.2f\n", h.RecurringIncomeWeight)
	fmt.Printf("    Dampening: -%.0f%%/mo, floor %.2f\n", h.DampeningPerMonth*100, h.DampeningFloor)
	fmt.Printf("    Confidence: %.0f%% -%.0f/mo, floor %.0f%%\n", h.ConfidenceStart, h.ConfidenceDecay, h.ConfidenceFloor)
	fmt.Printf("    Trend threshold: $%.0f/mo\n", h.TrendThreshold)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:  %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Schedule: %s\n", cfg.Daemon.Schedule)
	if addr := config.GetRedisAddr(cfg); addr != "" {
		fmt.Printf("    Redis:    %s\n", addr)
	} else {
		fmt.Println("    Redis:    not configured (in-memory cache)")
	}
	fmt.Printf("    Rate limit: %d burst, %d/min\n", cfg.Daemon.RateLimitBurst, cfg.Daemon.RateLimitPerMin)
	fmt.Println()

	fmt.Println("  Run `fcast setup` to reconfigure.")
	return nil
}
