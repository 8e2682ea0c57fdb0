package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/config"
	"github.com/theirongolddev/fcast/internal/model"
	"github.com/theirongolddev/fcast/internal/pipeline"
)

var fireCmd = &cobra.Command{
	Use:   "fire",
	Short: "Financial independence targets and projection",
	Long: `Compute FIRE targets and a year-by-year savings projection.

Monthly expenses and savings default to the ledger's averages over the
cash-flow lookback window when not set in config or by flag.`,
	RunE: runFIRE,
}

var (
	flagFIRECurrentAge    int
	flagFIRETargetAge     int
	flagFIREExpenses      float64
	flagFIRESavings       float64
	flagFIREMonthlySaving float64
	flagFIREReturn        float64
	flagFIREInflation     float64
	flagFIREWithdrawal    float64
	flagFIREPreset        string
)

func init() {
	f := fireCmd.Flags()
	f.IntVar(&flagFIRECurrentAge, "age", 0, "Current age")
	f.IntVar(&flagFIRETargetAge, "target-age", 0, "Target retirement age")
	f.Float64Var(&flagFIREExpenses, "expenses", 0, "Monthly expenses")
	f.Float64Var(&flagFIRESavings, "savings", 0, "Current invested savings")
	f.Float64Var(&flagFIREMonthlySaving, "monthly-savings", 0, "Monthly amount saved")
	f.Float64Var(&flagFIREReturn, "return", 0, "Expected annual return, percent")
	f.Float64Var(&flagFIREInflation, "inflation", 0, "Annual inflation, percent")
	f.Float64Var(&flagFIREWithdrawal, "withdrawal", 0, "Safe withdrawal rate, percent")
	f.StringVar(&flagFIREPreset, "preset", "", "Market assumptions: conservative, moderate or aggressive")
	rootCmd.AddCommand(fireCmd)
}

func runFIRE(cmd *cobra.Command, _ []string) error {
	fc := cfg.FIRE
	flags := cmd.Flags()
	if flags.Changed("preset") {
		if _, ok := config.LookupPreset(flagFIREPreset); !ok {
			return fmt.Errorf("unknown preset %q (want one of %v)", flagFIREPreset, config.PresetNames())
		}
		fc.Preset = flagFIREPreset
		fc.ExpectedAnnualReturn, fc.InflationRate, fc.WithdrawalRate = nil, nil, nil
	}
	if flags.Changed("age") {
		fc.CurrentAge = flagFIRECurrentAge
	}
	if flags.Changed("target-age") {
		fc.TargetRetirementAge = flagFIRETargetAge
	}
	if flags.Changed("expenses") {
		fc.MonthlyExpenses = flagFIREExpenses
	}
	if flags.Changed("savings") {
		fc.CurrentSavings = flagFIRESavings
	}
	if flags.Changed("monthly-savings") {
		fc.MonthlySavings = &flagFIREMonthlySaving
	}
	if flags.Changed("return") {
		fc.ExpectedAnnualReturn = &flagFIREReturn
	}
	if flags.Changed("inflation") {
		fc.InflationRate = &flagFIREInflation
	}
	if flags.Changed("withdrawal") {
		fc.WithdrawalRate = &flagFIREWithdrawal
	}

	var led model.Ledger
	if fc.MonthlyExpenses == 0 || fc.MonthlySavings == nil {
		result, err := loadData()
		if err != nil {
			return err
		}
		led = applyFilters(result.Ledger)
	}

	opts := planOptions()
	opts.FIRE = fc.Inputs()
	opts.MonthlySavings = fc.MonthlySavings
	plan := pipeline.BuildPlan(led, opts)
	if plan.FIREErr != nil {
		if fc.MonthlyExpenses == 0 && led.Empty() {
			return errors.New("no monthly expenses: pass --expenses or add expense records to the ledger")
		}
		return fmt.Errorf("fire plan: %w", plan.FIREErr)
	}

	renderFIRE(opts.FIRE, plan.FIRE)
	return nil
}

func renderFIRE(in model.FIREInputs, r model.FIREResults) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("FIRE  age %d, target %d", in.CurrentAge, in.TargetRetirementAge)))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Targets",
		Headers: []string{"Target", "Amount"},
		Rows: [][]string{
			{"FIRE", cli.FormatMoney(r.FIRENumber)},
			{"Lean FIRE", cli.FormatMoney(r.LeanFIRENumber)},
			{"Fat FIRE", cli.FormatMoney(r.FatFIRENumber)},
			{fmt.Sprintf("Coast FIRE (by %d)", r.CoastReferenceAge), cli.FormatMoney(r.CoastFIRENumber)},
			{"---"},
			{fmt.Sprintf("FIRE in %d dollars", in.TargetRetirementAge), cli.FormatMoney(r.InflationAdjustedFIRENumber)},
		},
	}))

	fmt.Printf("\n  Progress  %s\n\n", cli.RenderProgressBar(r.ProgressPercentage, 30))

	reach := fmt.Sprintf("%s (age %.1f)", cli.FormatYears(r.YearsToFIRE), r.ProjectedRetirementAge)
	if !r.Reachable {
		reach = "not reachable by age 100 at the current savings rate"
	}
	status := "on track"
	if !r.OnTrack {
		status = "behind target"
	}
	rows := [][]string{
		{"Time to FIRE", reach},
		{"Needed per month", cli.FormatMoney(r.MonthlySavingsNeeded)},
		{"Savings rate", cli.FormatPercent(r.CurrentSavingsRate)},
		{"Real return", cli.FormatPercent(r.RealAnnualReturn)},
		{"Status", status},
	}
	fmt.Print(cli.RenderTable(cli.Table{Headers: []string{"Metric", "Value"}, Rows: rows}))

	proj := r.YearlyProjections
	if len(proj) == 0 {
		return
	}
	var balances []float64
	projRows := make([][]string, 0, len(proj)/5+2)
	for i, p := range proj {
		balances = append(balances, p.Savings)
		if i%5 != 0 && i != len(proj)-1 {
			continue
		}
		projRows = append(projRows, []string{
			fmt.Sprintf("%d (age %d)", p.Year, p.Age),
			cli.FormatMoney(p.Savings),
			cli.FormatPercent(p.PercentComplete),
		})
	}
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Projection",
		Headers: []string{"Year", "Savings", "Of Target"},
		Rows:    projRows,
	}))
	fmt.Printf("  Growth  %s\n\n", cli.RenderSparkline(balances))
}
