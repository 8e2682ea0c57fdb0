package forecast

import (
	"errors"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fcast/internal/model"
)

var asOf = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func tx(kind model.TransactionKind, year int, month time.Month, day int, amount float64) model.Transaction {
	return model.Transaction{
		Kind:       kind,
		Date:       time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Amount:     decimal.NewFromFloat(amount),
		Recurrence: model.RecurrenceOneTime,
	}
}

// steadyLedger returns six months (Jan-Jun 2025) of identical income and expenses.
func steadyLedger(income, expense float64) (inc, exp []model.Transaction) {
	for m := time.January; m <= time.June; m++ {
		inc = append(inc, tx(model.KindIncome, 2025, m, 5, income))
		exp = append(exp, tx(model.KindExpense, 2025, m, 20, expense))
	}
	return inc, exp
}

func TestProjectCashFlow_InsufficientHistory(t *testing.T) {
	inc := []model.Transaction{tx(model.KindIncome, 2025, time.June, 1, 5000)}
	exp := []model.Transaction{tx(model.KindExpense, 2025, time.June, 3, 1200)}

	proj, err := ProjectCashFlow(inc, exp, CashFlowOptions{AsOf: asOf})
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Fatalf("err = %v, want ErrInsufficientHistory", err)
	}
	if len(proj.ProjectionData) != 0 {
		t.Errorf("got %d projection points alongside the error", len(proj.ProjectionData))
	}

	// Activity outside the lookback window does not count.
	old := tx(model.KindIncome, 2024, time.March, 1, 999)
	_, err = ProjectCashFlow(append(inc, old), exp, CashFlowOptions{AsOf: asOf})
	if !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("err = %v, want ErrInsufficientHistory", err)
	}
}

func TestProjectCashFlow_Steady(t *testing.T) {
	inc, exp := steadyLedger(5000, 3000)
	proj, err := ProjectCashFlow(inc, exp, CashFlowOptions{AsOf: asOf})
	if err != nil {
		t.Fatal(err)
	}

	if got := len(proj.ProjectionData); got != 18 {
		t.Fatalf("len(ProjectionData) = %d, want 18", got)
	}
	hist := proj.ProjectionData[:6]
	if hist[0].Month != "2025-01" || hist[5].Month != "2025-06" {
		t.Errorf("history spans %s..%s, want 2025-01..2025-06", hist[0].Month, hist[5].Month)
	}
	for _, p := range hist {
		if p.IsProjected || p.Confidence != 100 {
			t.Errorf("history point %s: IsProjected=%v Confidence=%v", p.Month, p.IsProjected, p.Confidence)
		}
	}
	if hist[5].CumulativeBalance != 12000 {
		t.Errorf("last historical balance = %v, want 12000", hist[5].CumulativeBalance)
	}

	fut := proj.Projected()
	if len(fut) != 12 {
		t.Fatalf("len(Projected) = %d, want 12", len(fut))
	}
	if fut[0].Month != "2025-07" || fut[0].MonthLabel != "Jul 2025" {
		t.Errorf("first projected month = %s (%s)", fut[0].Month, fut[0].MonthLabel)
	}
	if fut[0].ProjectedIncome != 5000 || fut[0].ProjectedExpenses != 3000 || fut[0].NetCashFlow != 2000 {
		t.Errorf("first projected point = %+v", fut[0])
	}
	if fut[0].Confidence != 91 || fut[11].Confidence != 47 {
		t.Errorf("confidence = %v..%v, want 91..47", fut[0].Confidence, fut[11].Confidence)
	}

	ins := proj.Insights
	if ins.TotalProjectedIncome != 60000 || ins.TotalProjectedExpenses != 36000 {
		t.Errorf("totals = %v / %v, want 60000 / 36000", ins.TotalProjectedIncome, ins.TotalProjectedExpenses)
	}
	if ins.AvgMonthlySavings != 2000 || ins.SavingsRate != 40 {
		t.Errorf("AvgMonthlySavings=%v SavingsRate=%v, want 2000/40", ins.AvgMonthlySavings, ins.SavingsRate)
	}
	if ins.EndOfYearBalance != 36000 || ins.MinCumulativeBalance != 14000 || ins.MaxCumulativeBalance != 36000 {
		t.Errorf("balances end=%v min=%v max=%v", ins.EndOfYearBalance, ins.MinCumulativeBalance, ins.MaxCumulativeBalance)
	}
	if ins.IncomeTrend != model.TrendStable || ins.ExpenseTrend != model.TrendStable {
		t.Errorf("trends = %s/%s, want stable/stable", ins.IncomeTrend, ins.ExpenseTrend)
	}
	if ins.NegativeMonths != 0 || ins.ValidMonths != 6 {
		t.Errorf("NegativeMonths=%d ValidMonths=%d", ins.NegativeMonths, ins.ValidMonths)
	}
}

func TestProjectCashFlow_CumulativeContinuity(t *testing.T) {
	inc, exp := steadyLedger(4200, 4700)
	proj, err := ProjectCashFlow(inc, exp, CashFlowOptions{AsOf: asOf, LookbackMonths: 6, HorizonMonths: 6})
	if err != nil {
		t.Fatal(err)
	}
	lastHist := proj.ProjectionData[5]
	firstProj := proj.ProjectionData[6]
	if firstProj.CumulativeBalance != lastHist.CumulativeBalance+firstProj.NetCashFlow {
		t.Errorf("continuity broken: %v != %v + %v", firstProj.CumulativeBalance, lastHist.CumulativeBalance, firstProj.NetCashFlow)
	}
	if proj.Insights.NegativeMonths != 6 {
		t.Errorf("NegativeMonths = %d, want 6", proj.Insights.NegativeMonths)
	}
	if proj.Insights.EndOfYearBalance != proj.ProjectionData[11].CumulativeBalance {
		t.Errorf("EndOfYearBalance with short horizon = %v, want last point", proj.Insights.EndOfYearBalance)
	}
}

func TestProjectCashFlow_ConfidenceDecay(t *testing.T) {
	inc, exp := steadyLedger(3000, 2000)
	proj, err := ProjectCashFlow(inc, exp, CashFlowOptions{AsOf: asOf, HorizonMonths: 24})
	if err != nil {
		t.Fatal(err)
	}
	prev := 101.0
	for i, p := range proj.Projected() {
		if p.Confidence > prev {
			t.Errorf("month %d: confidence rose %v -> %v", i+1, prev, p.Confidence)
		}
		if p.Confidence < 40 {
			t.Errorf("month %d: confidence %v below floor", i+1, p.Confidence)
		}
		prev = p.Confidence
	}
	if prev != 40 {
		t.Errorf("confidence at month 24 = %v, want 40", prev)
	}
}

func TestProjectCashFlow_Trend(t *testing.T) {
	var inc, exp []model.Transaction
	for i, m := 0, time.January; m <= time.June; i, m = i+1, m+1 {
		inc = append(inc, tx(model.KindIncome, 2025, m, 1, float64(1000*(i+1))))
		exp = append(exp, tx(model.KindExpense, 2025, m, 1, 2000))
	}
	proj, err := ProjectCashFlow(inc, exp, CashFlowOptions{AsOf: asOf})
	if err != nil {
		t.Fatal(err)
	}
	ins := proj.Insights
	if math.Abs(ins.IncomeSlope-1000) > 1e-9 || ins.ExpenseSlope != 0 {
		t.Errorf("slopes = %v/%v, want 1000/0", ins.IncomeSlope, ins.ExpenseSlope)
	}
	if ins.IncomeTrend != model.TrendUp {
		t.Errorf("IncomeTrend = %s, want up", ins.IncomeTrend)
	}
	// avg 3500 + 1000*1*0.97
	if got := proj.Projected()[0].ProjectedIncome; math.Abs(got-4470) > 1e-9 {
		t.Errorf("month 1 income = %v, want 4470", got)
	}
	// dampening bottoms out at 0.5 from month 17: 3500 + 1000*20*0.5
	proj, err = ProjectCashFlow(inc, exp, CashFlowOptions{AsOf: asOf, HorizonMonths: 20})
	if err != nil {
		t.Fatal(err)
	}
	if got := proj.Projected()[19].ProjectedIncome; math.Abs(got-13500) > 1e-9 {
		t.Errorf("month 20 income = %v, want 13500", got)
	}
}

func TestProjectCashFlow_ShortHistoryHasNoSlope(t *testing.T) {
	inc := []model.Transaction{
		tx(model.KindIncome, 2025, time.May, 1, 1000),
		tx(model.KindIncome, 2025, time.June, 1, 9000),
	}
	proj, err := ProjectCashFlow(inc, nil, CashFlowOptions{AsOf: asOf})
	if err != nil {
		t.Fatal(err)
	}
	if proj.Insights.IncomeSlope != 0 || proj.Insights.IncomeTrend != model.TrendStable {
		t.Errorf("slope = %v (%s), want 0 stable with two months", proj.Insights.IncomeSlope, proj.Insights.IncomeTrend)
	}
	// zero-filled months are excluded from the average
	if proj.Insights.AvgIncome != 5000 {
		t.Errorf("AvgIncome = %v, want 5000", proj.Insights.AvgIncome)
	}
}

func TestProjectCashFlow_FallingIncomeClampsAtZero(t *testing.T) {
	var inc []model.Transaction
	for i, m := 0, time.January; m <= time.June; i, m = i+1, m+1 {
		inc = append(inc, tx(model.KindIncome, 2025, m, 1, float64(6000-1000*i)))
	}
	proj, err := ProjectCashFlow(inc, nil, CashFlowOptions{AsOf: asOf})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range proj.Projected() {
		if p.ProjectedIncome < 0 || p.ProjectedExpenses < 0 {
			t.Errorf("%s: negative projection %+v", p.Month, p)
		}
	}
	if proj.Insights.IncomeTrend != model.TrendDown {
		t.Errorf("IncomeTrend = %s, want down", proj.Insights.IncomeTrend)
	}
}

func TestRecurringMonthlyTotal(t *testing.T) {
	ended := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	open := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	salary := func(month time.Month, amount float64) model.Transaction {
		rec := tx(model.KindIncome, 2025, month, 1, amount)
		rec.Description = "Salary"
		rec.Recurrence = model.RecurrenceMonthly
		return rec
	}

	income := []model.Transaction{
		salary(time.April, 3000),
		salary(time.May, 3100),
		salary(time.June, 3200), // latest in the series wins
		{Description: "Tutoring", Recurrence: model.RecurrenceWeekly, Amount: decimal.NewFromInt(100),
			Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), RecurrenceEndDate: &open},
		{Description: "Old gig", Recurrence: model.RecurrenceMonthly, Amount: decimal.NewFromInt(800),
			Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), RecurrenceEndDate: &ended},
		{Description: "Dividends", Recurrence: model.RecurrenceQuarterly, Amount: decimal.NewFromInt(600),
			Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		{Description: "Bonus", Recurrence: model.RecurrenceOneTime, Amount: decimal.NewFromInt(5000),
			Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Description: "Future contract", Recurrence: model.RecurrenceMonthly, Amount: decimal.NewFromInt(999),
			Date: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)},
	}

	got := RecurringMonthlyTotal(income, asOf)
	want := 3200 + 433 + 200.0
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("RecurringMonthlyTotal = %v, want %v", got, want)
	}

	series := RecurringSeries(income, asOf)
	var names []string
	for _, s := range series {
		names = append(names, s.Description)
	}
	if want := []string{"Dividends", "Salary", "Tutoring"}; !slices.Equal(names, want) {
		t.Errorf("RecurringSeries = %v, want %v", names, want)
	}
	if !series[1].Amount.Equal(decimal.NewFromInt(3200)) {
		t.Errorf("Salary series amount = %s, want the latest 3200", series[1].Amount)
	}
}

func TestRecurringSeries_SeparatesAccounts(t *testing.T) {
	consulting := func(account string, month time.Month, amount int64) model.Transaction {
		return model.Transaction{
			Description: "Consulting", Recurrence: model.RecurrenceMonthly, Account: account,
			Amount: decimal.NewFromInt(amount), Date: time.Date(2025, month, 5, 0, 0, 0, 0, time.UTC),
		}
	}
	income := []model.Transaction{
		consulting("acme", time.May, 1000),
		consulting("acme", time.June, 1200),
		consulting("globex", time.June, 700),
	}

	series := RecurringSeries(income, asOf)
	if len(series) != 2 || series[0].Account != "acme" || series[1].Account != "globex" {
		t.Fatalf("RecurringSeries = %+v, want one series per account", series)
	}
	if got := RecurringMonthlyTotal(income, asOf); math.Abs(got-1900) > 1e-6 {
		t.Errorf("RecurringMonthlyTotal = %v, want 1900", got)
	}
}

func TestProjectCashFlow_RecurringWeight(t *testing.T) {
	inc, exp := steadyLedger(3000, 1000)
	for i := range inc {
		inc[i].Description = "Salary"
		inc[i].Recurrence = model.RecurrenceMonthly
	}
	proj, err := ProjectCashFlow(inc, exp, CashFlowOptions{AsOf: asOf})
	if err != nil {
		t.Fatal(err)
	}
	if proj.Insights.BaseRecurringIncome != 3000 {
		t.Errorf("BaseRecurringIncome = %v, want 3000", proj.Insights.BaseRecurringIncome)
	}
	if got := proj.Projected()[0].ProjectedIncome; math.Abs(got-3900) > 1e-9 {
		t.Errorf("projected income = %v, want 3900", got)
	}
}

func TestProjectCashFlow_CustomHeuristics(t *testing.T) {
	inc, exp := steadyLedger(3000, 1000)
	h := DefaultHeuristics()
	h.ConfidenceStart = 80
	h.ConfidenceDecay = 10
	h.ConfidenceFloor = 60
	proj, err := ProjectCashFlow(inc, exp, CashFlowOptions{AsOf: asOf, HorizonMonths: 4, Heuristics: &h})
	if err != nil {
		t.Fatal(err)
	}
	var got []float64
	for _, p := range proj.Projected() {
		got = append(got, p.Confidence)
	}
	want := []float64{70, 60, 60, 60}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("confidence = %v, want %v", got, want)
			break
		}
	}

	h.DampeningFloor = 2
	if _, err := ProjectCashFlow(inc, exp, CashFlowOptions{AsOf: asOf, Heuristics: &h}); !IsValidation(err) {
		t.Errorf("bad heuristics err = %v, want validation error", err)
	}
}

func TestProjectCashFlow_Validation(t *testing.T) {
	inc, exp := steadyLedger(1, 1)
	for _, opts := range []CashFlowOptions{
		{AsOf: asOf, LookbackMonths: -1},
		{AsOf: asOf, LookbackMonths: 121},
		{AsOf: asOf, HorizonMonths: -3},
		{AsOf: asOf, HorizonMonths: 500},
	} {
		if _, err := ProjectCashFlow(inc, exp, opts); !IsValidation(err) {
			t.Errorf("opts %+v: err = %v, want validation error", opts, err)
		}
	}
}

func TestAggregateMonths(t *testing.T) {
	inc := []model.Transaction{
		tx(model.KindIncome, 2025, time.April, 2, 100.10),
		tx(model.KindIncome, 2025, time.April, 28, 200.20),
		tx(model.KindIncome, 2025, time.July, 1, 50), // after the window
	}
	exp := []model.Transaction{tx(model.KindExpense, 2025, time.June, 30, 0.30)}

	months := AggregateMonths(inc, exp, asOf, 3)
	if len(months) != 3 {
		t.Fatalf("len = %d, want 3", len(months))
	}
	if months[0].Month != "2025-04" || !months[0].Income.Equal(decimal.RequireFromString("300.30")) {
		t.Errorf("April = %s %s", months[0].Month, months[0].Income)
	}
	if months[1].Valid() {
		t.Errorf("May should be an empty zero-filled month: %+v", months[1])
	}
	if !months[2].Expenses.Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("June expenses = %s, want 0.3", months[2].Expenses)
	}
}
