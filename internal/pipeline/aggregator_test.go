package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fcast/internal/model"
)

func loadSample(t *testing.T) model.Ledger {
	t.Helper()
	result, err := Load(sampleDir(t), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return result.Ledger
}

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.Local)
}

func TestSummarize(t *testing.T) {
	led := loadSample(t)
	s := Summarize(led, month(2025, 1), month(2025, 7))

	if s.IncomeCount != 6 || s.ExpenseCount != 12 {
		t.Errorf("counts = %d/%d, want 6/12", s.IncomeCount, s.ExpenseCount)
	}
	if s.ActiveMonths != 6 {
		t.Errorf("ActiveMonths = %d, want 6", s.ActiveMonths)
	}
	if !s.TotalIncome.Equal(decimal.NewFromInt(30000)) || !s.TotalExpenses.Equal(decimal.NewFromInt(14400)) {
		t.Errorf("totals = %s/%s, want 30000/14400", s.TotalIncome, s.TotalExpenses)
	}
	if !s.Net.Equal(decimal.NewFromInt(15600)) {
		t.Errorf("Net = %s, want 15600", s.Net)
	}
	if s.SavingsRate != 52 {
		t.Errorf("SavingsRate = %v, want 52", s.SavingsRate)
	}
	if s.IncomePerMonth != 5000 || s.ExpensesPerMonth != 2400 {
		t.Errorf("per month = %v/%v, want 5000/2400", s.IncomePerMonth, s.ExpensesPerMonth)
	}
	if s.RecurringIncome != 5000 || s.RecurringExpenses != 2000 {
		t.Errorf("recurring = %v/%v, want 5000/2000", s.RecurringIncome, s.RecurringExpenses)
	}
	if s.LiabilityCount != 2 || s.TotalDebt != 13000 || s.TotalMinPayments != 300 {
		t.Errorf("debt = %d/%v/%v", s.LiabilityCount, s.TotalDebt, s.TotalMinPayments)
	}
	if want := 120000.0 / 13000; math.Abs(s.WeightedDebtRate-want) > 1e-9 {
		t.Errorf("WeightedDebtRate = %v, want %v", s.WeightedDebtRate, want)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(model.Ledger{}, month(2025, 1), month(2025, 7))
	if s.SavingsRate != 0 || s.IncomePerMonth != 0 || s.WeightedDebtRate != 0 {
		t.Errorf("empty summary = %+v", s)
	}
	if !s.Net.IsZero() {
		t.Errorf("Net = %s, want 0", s.Net)
	}
}

func TestAggregateMonths(t *testing.T) {
	led := loadSample(t)
	months := AggregateMonths(led, month(2025, 4), month(2025, 9))

	if len(months) != 5 {
		t.Fatalf("got %d months, want 5 (zero-filled)", len(months))
	}
	if !months[0].Month.Equal(month(2025, 8)) {
		t.Errorf("first month = %v, want Aug 2025", months[0].Month)
	}
	for _, m := range months[:2] {
		if m.Transactions != 0 || !m.Net().IsZero() {
			t.Errorf("%s should be empty: %+v", m.Month.Format("2006-01"), m)
		}
	}
	june := months[2]
	if !june.Month.Equal(month(2025, 6)) {
		t.Fatalf("months[2] = %v, want Jun 2025", june.Month)
	}
	if june.Transactions != 3 || !june.Net().Equal(decimal.NewFromInt(2600)) {
		t.Errorf("June = %d txns, net %s; want 3, 2600", june.Transactions, june.Net())
	}
}

func TestAggregateCategories(t *testing.T) {
	led := loadSample(t)
	cats := AggregateCategories(led.Expenses, month(2025, 1), month(2025, 7))

	if len(cats) != 2 {
		t.Fatalf("got %d categories, want 2", len(cats))
	}
	if cats[0].Category != "housing" || !cats[0].Total.Equal(decimal.NewFromInt(12000)) {
		t.Errorf("top category = %s %s, want housing 12000", cats[0].Category, cats[0].Total)
	}
	if cats[1].Category != "food" || cats[1].Count != 6 {
		t.Errorf("second category = %+v", cats[1])
	}
	var share float64
	for _, c := range cats {
		share += c.SharePercent
	}
	if math.Abs(share-100) > 1e-9 {
		t.Errorf("shares sum to %v, want 100", share)
	}
}

func TestCompareCategories(t *testing.T) {
	txns := []model.Transaction{
		{Kind: model.KindExpense, Date: time.Date(2025, 5, 5, 0, 0, 0, 0, time.Local), Amount: decimal.NewFromInt(100), Category: "food"},
		{Kind: model.KindExpense, Date: time.Date(2025, 5, 6, 0, 0, 0, 0, time.Local), Amount: decimal.NewFromInt(50), Category: "fun"},
		{Kind: model.KindExpense, Date: time.Date(2025, 6, 5, 0, 0, 0, 0, time.Local), Amount: decimal.NewFromInt(80), Category: "food"},
		{Kind: model.KindExpense, Date: time.Date(2025, 6, 6, 0, 0, 0, 0, time.Local), Amount: decimal.NewFromInt(50), Category: "fun"},
		{Kind: model.KindExpense, Date: time.Date(2025, 6, 7, 0, 0, 0, 0, time.Local), Amount: decimal.NewFromInt(20), Category: "books"},
	}
	since := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	until := since.AddDate(0, 0, 30)

	want := map[string]int{"food": -1, "fun": 0, "books": 1}
	for _, c := range CompareCategories(txns, since, until) {
		if c.TrendDirection != want[c.Category] {
			t.Errorf("%s trend = %d, want %d", c.Category, c.TrendDirection, want[c.Category])
		}
	}
}

func TestComparePeriods(t *testing.T) {
	led := loadSample(t)
	cmp := ComparePeriods(led, month(2025, 4), month(2025, 7))

	if cmp.Current.IncomeCount != 3 {
		t.Errorf("current income count = %d, want 3", cmp.Current.IncomeCount)
	}
	// The previous window is the same length, ending where current starts.
	if cmp.Previous.IncomeCount < 2 || cmp.Previous.IncomeCount > 3 {
		t.Errorf("previous income count = %d", cmp.Previous.IncomeCount)
	}
}

func TestFilters(t *testing.T) {
	led := loadSample(t)

	if got := FilterByTime(led.Expenses, month(2025, 6), month(2025, 7)); len(got) != 2 {
		t.Errorf("FilterByTime June = %d, want 2", len(got))
	}
	if got := FilterByTime(led.Expenses, time.Time{}, time.Time{}); len(got) != len(led.Expenses) {
		t.Errorf("unbounded FilterByTime dropped records")
	}

	debts := FilterByAccount(led, "DEBT")
	if len(debts.Liabilities) != 2 || len(debts.Income) != 0 {
		t.Errorf("FilterByAccount(debt) = %d liabilities / %d income", len(debts.Liabilities), len(debts.Income))
	}
	personal := FilterByAccount(led, "pers")
	if len(personal.Income) != 6 || len(personal.Liabilities) != 0 {
		t.Errorf("FilterByAccount(pers) = %d income / %d liabilities", len(personal.Income), len(personal.Liabilities))
	}

	if got := FilterByCategory(led.Expenses, "Food"); len(got) != 6 {
		t.Errorf("FilterByCategory(Food) = %d, want 6", len(got))
	}
}
