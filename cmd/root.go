// Package cmd implements the fcast CLI commands.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/config"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/pipeline"
	"github.com/theirongolddev/fcast/internal/store"
)

var (
	flagMonths    int
	flagAccount   string
	flagCategory  string
	flagNoCache   bool
	flagLedgerDir string
	flagQuiet     bool
	flagAsOf      string
	flagVerbose   bool
)

var (
	cfg  config.Config
	asOf time.Time
	log  = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:               "fcast",
	Short:             "Personal finance forecasting CLI",
	Long:              "Simulate debt payoff, project FIRE targets and forecast cash flow from your ledger.",
	PersistentPreRunE: resolveGlobals,
	RunE:              runSummary,
	SilenceUsage:      true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)

	rootCmd.PersistentFlags().IntVarP(&flagMonths, "months", "n", 6, "Time window in months, ending with the as-of month")
	rootCmd.PersistentFlags().StringVarP(&flagAccount, "account", "a", "", "Filter to account (substring match)")
	rootCmd.PersistentFlags().StringVarP(&flagCategory, "category", "c", "", "Filter to category (substring match)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().StringVarP(&flagLedgerDir, "ledger-dir", "d", "", "Ledger directory (default from config or FCAST_LEDGER_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagAsOf, "as-of", "", "Evaluate as of this month (YYYY-MM, default current month)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging to stderr")
}

// resolveGlobals loads config and resolves the flags shared by every command.
func resolveGlobals(_ *cobra.Command, _ []string) error {
	if flagVerbose {
		log.SetLevel(logrus.DebugLevel)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		log.WithError(err).Warn("config unreadable, using defaults")
		cfg = config.DefaultConfig()
	}

	if flagLedgerDir == "" {
		flagLedgerDir = config.GetLedgerDir(cfg)
	}

	asOf = time.Now()
	if flagAsOf != "" {
		t, err := time.ParseInLocation("2006-01", flagAsOf, time.Local)
		if err != nil {
			return fmt.Errorf("--as-of must be YYYY-MM: %w", err)
		}
		// Evaluate at the end of the month so its records count.
		asOf = t.AddDate(0, 1, 0).Add(-time.Second)
	}
	if flagMonths < 1 {
		return fmt.Errorf("--months must be at least 1 (got %d)", flagMonths)
	}

	log.WithFields(logrus.Fields{
		"ledger": flagLedgerDir,
		"as_of":  asOf.Format("2006-01-02"),
		"config": config.ConfigPath(),
	}).Debug("resolved settings")
	return nil
}

// loadData is the shared data loading path used by all commands.
// Uses SQLite cache when available for fast subsequent runs.
func loadData() (*pipeline.LoadResult, error) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning %s...\n", flagLedgerDir)
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%50 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	var result *pipeline.LoadResult
	if !flagNoCache {
		result = loadCached(progressFn)
	}

	if result == nil {
		r, err := pipeline.Load(flagLedgerDir, progressFn)
		if err != nil {
			return nil, err
		}
		result = r
		if !flagQuiet && result.TotalFiles > 0 {
			fmt.Fprintf(os.Stderr, "\r  Parsed %s records across %d accounts    \n",
				cli.FormatNumber(int64(result.Ledger.Len())),
				result.AccountCount,
			)
		}
	}

	if result.ParseErrors > 0 || result.FileErrors > 0 {
		log.WithFields(logrus.Fields{
			"bad_lines": result.ParseErrors,
			"bad_files": result.FileErrors,
		}).Warn("some ledger input was skipped")
	}
	return result, nil
}

// loadCached returns nil when the cache cannot be used so the caller falls
// back to a full parse.
func loadCached(progressFn pipeline.ProgressFunc) *pipeline.LoadResult {
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		log.WithError(err).Debug("cache unavailable, doing full parse")
		return nil
	}
	defer func() { _ = cache.Close() }()

	cr, err := pipeline.LoadWithCache(flagLedgerDir, cache, progressFn)
	if err != nil {
		log.WithError(err).Warn("cache error, falling back to full parse")
		return nil
	}

	if !flagQuiet && cr.TotalFiles > 0 {
		if cr.Reparsed == 0 {
			fmt.Fprintf(os.Stderr, "\r  Loaded %s records from cache (%d accounts)    \n",
				cli.FormatNumber(int64(cr.Ledger.Len())),
				cr.AccountCount,
			)
		} else {
			fmt.Fprintf(os.Stderr, "\r  %d cached + %d reparsed files (%d accounts)    \n",
				cr.CacheHits,
				cr.Reparsed,
				cr.AccountCount,
			)
		}
	}
	log.WithFields(logrus.Fields{"hits": cr.CacheHits, "reparsed": cr.Reparsed, "pruned": cr.Pruned}).Debug("cache load")
	return &cr.LoadResult
}

// applyFilters narrows the ledger by the --account and --category flags.
func applyFilters(led model.Ledger) model.Ledger {
	led = pipeline.FilterByAccount(led, flagAccount)
	if flagCategory != "" {
		led.Income = pipeline.FilterByCategory(led.Income, flagCategory)
		led.Expenses = pipeline.FilterByCategory(led.Expenses, flagCategory)
	}
	return led
}

// window returns the [since, until) range covering flagMonths calendar
// months ending with the as-of month.
func window() (time.Time, time.Time) {
	until := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location()).AddDate(0, 1, 0)
	return until.AddDate(0, -flagMonths, 0), until
}

// planOptions builds calculator inputs from config, overridden by flags
// where a command sets them.
func planOptions() pipeline.PlanOptions {
	h := cfg.CashFlow.Heuristics
	return pipeline.PlanOptions{
		AsOf:           asOf,
		ExtraPayment:   cfg.Debt.ExtraMonthlyPayment,
		LookbackMonths: cfg.CashFlow.LookbackMonths,
		HorizonMonths:  cfg.CashFlow.HorizonMonths,
		Heuristics:     &h,
		FIRE:           cfg.FIRE.Inputs(),
		MonthlySavings: cfg.FIRE.MonthlySavings,
	}
}
