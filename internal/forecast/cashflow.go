package forecast

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fcast/internal/finmath"
	"github.com/theirongolddev/fcast/internal/model"
)

const (
	DefaultLookbackMonths = 6
	DefaultHorizonMonths  = 12
	MaxWindowMonths       = 120

	// MinValidMonths is the least history the forecaster projects from.
	MinValidMonths = 2
	// MinTrendMonths is the least history a trend slope is fitted on.
	MinTrendMonths = 3

	monthKey   = "2006-01"
	monthLabel = "Jan 2006"
)

// CashFlowOptions controls a projection. Zero values select the defaults.
type CashFlowOptions struct {
	AsOf           time.Time
	LookbackMonths int
	HorizonMonths  int
	Heuristics     *Heuristics
}

func (o CashFlowOptions) withDefaults() CashFlowOptions {
	if o.AsOf.IsZero() {
		o.AsOf = time.Now()
	}
	if o.LookbackMonths == 0 {
		o.LookbackMonths = DefaultLookbackMonths
	}
	if o.HorizonMonths == 0 {
		o.HorizonMonths = DefaultHorizonMonths
	}
	if o.Heuristics == nil {
		h := DefaultHeuristics()
		o.Heuristics = &h
	}
	return o
}

// ProjectCashFlow aggregates income and expenses over the lookback window
// ending with the as-of month and projects HorizonMonths ahead. It returns an
// error wrapping ErrInsufficientHistory when fewer than MinValidMonths months
// in the window carry any activity.
func ProjectCashFlow(income, expenses []model.Transaction, opts CashFlowOptions) (model.CashFlowProjection, error) {
	opts = opts.withDefaults()
	if opts.LookbackMonths < 1 || opts.LookbackMonths > MaxWindowMonths {
		return model.CashFlowProjection{}, invalid("lookbackMonths", "must be between 1 and %d (got %d)", MaxWindowMonths, opts.LookbackMonths)
	}
	if opts.HorizonMonths < 1 || opts.HorizonMonths > MaxWindowMonths {
		return model.CashFlowProjection{}, invalid("horizonMonths", "must be between 1 and %d (got %d)", MaxWindowMonths, opts.HorizonMonths)
	}
	h := *opts.Heuristics
	if err := h.validate(); err != nil {
		return model.CashFlowProjection{}, err
	}

	history := AggregateMonths(income, expenses, opts.AsOf, opts.LookbackMonths)

	var incomeVals, expenseVals []float64
	for _, m := range history {
		if !m.Valid() {
			continue
		}
		incomeVals = append(incomeVals, m.Income.InexactFloat64())
		expenseVals = append(expenseVals, m.Expenses.InexactFloat64())
	}
	if len(incomeVals) < MinValidMonths {
		return model.CashFlowProjection{}, fmt.Errorf("%w: %d month(s) with activity in the last %d, need %d",
			ErrInsufficientHistory, len(incomeVals), opts.LookbackMonths, MinValidMonths)
	}

	ins := model.CashFlowInsights{
		AvgIncome:           mean(incomeVals),
		AvgExpenses:         mean(expenseVals),
		BaseRecurringIncome: RecurringMonthlyTotal(income, opts.AsOf),
		ValidMonths:         len(incomeVals),
	}
	if len(incomeVals) >= MinTrendMonths {
		ins.IncomeSlope = finmath.LinearFit(incomeVals).Slope
		ins.ExpenseSlope = finmath.LinearFit(expenseVals).Slope
	}
	ins.IncomeTrend = h.Label(ins.IncomeSlope)
	ins.ExpenseTrend = h.Label(ins.ExpenseSlope)

	points := make([]model.ProjectionPoint, 0, len(history)+opts.HorizonMonths)
	var cumulative float64
	for _, m := range history {
		inc := m.Income.InexactFloat64()
		exp := m.Expenses.InexactFloat64()
		cumulative += inc - exp
		points = append(points, model.ProjectionPoint{
			Month:             m.Month,
			MonthLabel:        m.Start.Format(monthLabel),
			ProjectedIncome:   inc,
			ProjectedExpenses: exp,
			NetCashFlow:       inc - exp,
			CumulativeBalance: cumulative,
			Confidence:        100,
		})
	}

	asOfMonth := startOfMonth(opts.AsOf)
	for i := 1; i <= opts.HorizonMonths; i++ {
		damp := h.Dampening(i)
		inc := max(0, ins.AvgIncome+ins.BaseRecurringIncome*h.RecurringIncomeWeight+ins.IncomeSlope*float64(i)*damp)
		exp := max(0, ins.AvgExpenses+ins.ExpenseSlope*float64(i)*damp)
		net := inc - exp
		cumulative += net

		month := asOfMonth.AddDate(0, i, 0)
		pt := model.ProjectionPoint{
			Month:             month.Format(monthKey),
			MonthLabel:        month.Format(monthLabel),
			ProjectedIncome:   inc,
			ProjectedExpenses: exp,
			NetCashFlow:       net,
			CumulativeBalance: cumulative,
			IsProjected:       true,
			Confidence:        h.Confidence(i),
		}
		points = append(points, pt)

		ins.TotalProjectedIncome += inc
		ins.TotalProjectedExpenses += exp
		if net < 0 {
			ins.NegativeMonths++
		}
		if i == 1 || cumulative < ins.MinCumulativeBalance {
			ins.MinCumulativeBalance = cumulative
		}
		if i == 1 || cumulative > ins.MaxCumulativeBalance {
			ins.MaxCumulativeBalance = cumulative
		}
		if i == min(12, opts.HorizonMonths) {
			ins.EndOfYearBalance = cumulative
		}
	}

	saved := ins.TotalProjectedIncome - ins.TotalProjectedExpenses
	ins.AvgMonthlySavings = saved / float64(opts.HorizonMonths)
	if ins.TotalProjectedIncome > 0 {
		ins.SavingsRate = saved / ins.TotalProjectedIncome * 100
	}

	return model.CashFlowProjection{
		History:        history,
		ProjectionData: points,
		Insights:       ins,
	}, nil
}

// AggregateMonths sums transactions into zero-filled calendar-month buckets
// for the lookback months ending with the month containing asOf, oldest first.
func AggregateMonths(income, expenses []model.Transaction, asOf time.Time, lookback int) []model.MonthlyAggregate {
	if lookback <= 0 {
		return nil
	}
	first := startOfMonth(asOf).AddDate(0, -(lookback - 1), 0)

	months := make([]model.MonthlyAggregate, lookback)
	idx := make(map[string]int, lookback)
	for i := range months {
		start := first.AddDate(0, i, 0)
		key := start.Format(monthKey)
		months[i] = model.MonthlyAggregate{Month: key, Start: start}
		idx[key] = i
	}

	for _, t := range income {
		if i, ok := idx[t.Date.Format(monthKey)]; ok {
			months[i].Income = months[i].Income.Add(t.Amount)
		}
	}
	for _, t := range expenses {
		if i, ok := idx[t.Date.Format(monthKey)]; ok {
			months[i].Expenses = months[i].Expenses.Add(t.Amount)
		}
	}
	return months
}

// RecurringSeries returns the representative record of every recurring
// series active at asOf, ordered by description. Records sharing an
// account, description and recurrence form one series, represented by its
// most recent record dated before the end of the as-of month. Two streams
// with the same label in the same account collapse into one.
func RecurringSeries(txns []model.Transaction, asOf time.Time) []model.Transaction {
	windowEnd := startOfMonth(asOf).AddDate(0, 1, 0)

	type seriesKey struct {
		account string
		desc    string
		rec     model.Recurrence
	}
	latest := make(map[seriesKey]model.Transaction)
	for _, t := range txns {
		if !t.IsRecurring() || !t.Date.Before(windowEnd) {
			continue
		}
		k := seriesKey{
			account: strings.ToLower(strings.TrimSpace(t.Account)),
			desc:    strings.ToLower(strings.TrimSpace(t.Description)),
			rec:     t.Recurrence,
		}
		if prev, ok := latest[k]; !ok || t.Date.After(prev.Date) {
			latest[k] = t
		}
	}

	series := make([]model.Transaction, 0, len(latest))
	for _, t := range latest {
		if t.ActiveAt(asOf) {
			series = append(series, t)
		}
	}
	slices.SortFunc(series, func(a, b model.Transaction) int {
		if c := strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description)); c != 0 {
			return c
		}
		if c := strings.Compare(string(a.Recurrence), string(b.Recurrence)); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(a.Account), strings.ToLower(b.Account))
	})
	return series
}

// RecurringMonthlyTotal sums the monthly equivalent of every recurring
// series active at asOf. Same-label streams in one account count once, so
// the total can under-count; give such streams distinct descriptions.
func RecurringMonthlyTotal(txns []model.Transaction, asOf time.Time) float64 {
	total := decimal.Zero
	for _, t := range RecurringSeries(txns, asOf) {
		total = total.Add(MonthlyEquivalent(t))
	}
	return total.InexactFloat64()
}

// MonthlyEquivalent converts one occurrence of t to its monthly amount.
func MonthlyEquivalent(t model.Transaction) decimal.Decimal {
	return t.Amount.Mul(decimal.NewFromFloat(t.Recurrence.MonthlyFactor()))
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
