package pipeline

import (
	"time"

	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

// PlanOptions carries the user-tunable inputs for BuildPlan.
type PlanOptions struct {
	AsOf           time.Time
	ExtraPayment   float64
	LookbackMonths int
	HorizonMonths  int
	Heuristics     *forecast.Heuristics

	// FIRE profile. A zero MonthlyExpenses or nil MonthlySavings is filled
	// from the ledger's trailing monthly averages.
	FIRE           model.FIREInputs
	MonthlySavings *float64
}

// Plan bundles every calculator's output for one ledger snapshot.
type Plan struct {
	AsOf     time.Time                `json:"asOf"`
	Debt     model.DebtComparison     `json:"debt"`
	FIRE     model.FIREResults        `json:"fire"`
	CashFlow model.CashFlowProjection `json:"cashflow"`
	Summary  model.LedgerSummary      `json:"-"`

	// Per-calculator failures. A failed section is left zero-valued.
	DebtErr     error `json:"-"`
	FIREErr     error `json:"-"`
	CashFlowErr error `json:"-"`
}

// BuildPlan runs the debt, FIRE and cash-flow calculators over led.
// Calculator errors are recorded on the Plan rather than returned so a
// short ledger still yields the sections that can be computed.
func BuildPlan(led model.Ledger, opts PlanOptions) Plan {
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}
	lookback := opts.LookbackMonths
	if lookback == 0 {
		lookback = forecast.DefaultLookbackMonths
	}

	windowEnd := monthStart(asOf).AddDate(0, 1, 0)
	windowStart := windowEnd.AddDate(0, -lookback, 0)

	p := Plan{
		AsOf:    asOf,
		Summary: Summarize(led, windowStart, windowEnd),
	}

	p.Debt, p.DebtErr = forecast.Compare(led.Liabilities, opts.ExtraPayment, asOf)

	p.CashFlow, p.CashFlowErr = forecast.ProjectCashFlow(led.Income, led.Expenses, forecast.CashFlowOptions{
		AsOf:           asOf,
		LookbackMonths: lookback,
		HorizonMonths:  opts.HorizonMonths,
		Heuristics:     opts.Heuristics,
	})

	inputs, savings := fireInputs(opts, p.Summary, lookback)
	p.FIRE, p.FIREErr = forecast.CalculateFIRE(inputs, savings)

	return p
}

// fireInputs fills gaps in the configured FIRE profile from the ledger.
// Averages are taken over the full lookback window, not only active months.
func fireInputs(opts PlanOptions, s model.LedgerSummary, lookback int) (model.FIREInputs, float64) {
	in := opts.FIRE
	months := float64(lookback)
	avgIncome := s.TotalIncome.InexactFloat64() / months
	avgExpenses := s.TotalExpenses.InexactFloat64() / months

	if in.MonthlyExpenses == 0 {
		in.MonthlyExpenses = avgExpenses
	}
	if opts.MonthlySavings != nil {
		return in, *opts.MonthlySavings
	}
	return in, max(0, avgIncome-avgExpenses)
}
