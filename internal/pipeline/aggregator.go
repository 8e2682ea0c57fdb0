// Package pipeline orchestrates ledger loading, caching, aggregation and
// plan computation.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Summarize computes summary statistics for transactions within
// [since, until) plus the current liability snapshot.
func Summarize(led model.Ledger, since, until time.Time) model.LedgerSummary {
	income := FilterByTime(led.Income, since, until)
	expenses := FilterByTime(led.Expenses, since, until)

	var stats model.LedgerSummary
	activeMonths := make(map[string]struct{})

	for _, t := range income {
		stats.IncomeCount++
		stats.TotalIncome = stats.TotalIncome.Add(t.Amount)
		activeMonths[t.Date.Format("2006-01")] = struct{}{}
	}
	for _, t := range expenses {
		stats.ExpenseCount++
		stats.TotalExpenses = stats.TotalExpenses.Add(t.Amount)
		activeMonths[t.Date.Format("2006-01")] = struct{}{}
	}

	stats.ActiveMonths = len(activeMonths)
	stats.Net = stats.TotalIncome.Sub(stats.TotalExpenses)
	if stats.TotalIncome.IsPositive() {
		stats.SavingsRate = stats.Net.Mul(hundred).Div(stats.TotalIncome).InexactFloat64()
	}
	if stats.ActiveMonths > 0 {
		months := decimal.NewFromInt(int64(stats.ActiveMonths))
		stats.IncomePerMonth = stats.TotalIncome.Div(months).InexactFloat64()
		stats.ExpensesPerMonth = stats.TotalExpenses.Div(months).InexactFloat64()
	}

	asOf := until
	if asOf.IsZero() {
		asOf = time.Now()
	}
	stats.RecurringIncome = forecast.RecurringMonthlyTotal(led.Income, asOf)
	stats.RecurringExpenses = forecast.RecurringMonthlyTotal(led.Expenses, asOf)

	var weighted float64
	for _, l := range led.Liabilities {
		stats.LiabilityCount++
		stats.TotalDebt += l.Balance
		stats.TotalMinPayments += l.MinimumPayment
		weighted += l.Balance * l.InterestRate
	}
	if stats.TotalDebt > 0 {
		stats.WeightedDebtRate = weighted / stats.TotalDebt
	}

	return stats
}

// AggregateMonths computes per-month totals for [since, until), zero-filling
// every month in the range. Most recent month first.
func AggregateMonths(led model.Ledger, since, until time.Time) []model.MonthlyStats {
	monthMap := make(map[string]*model.MonthlyStats)

	add := func(t model.Transaction) {
		key := t.Date.Format("2006-01")
		ms, ok := monthMap[key]
		if !ok {
			ms = &model.MonthlyStats{Month: monthStart(t.Date)}
			monthMap[key] = ms
		}
		ms.Transactions++
		if t.Kind == model.KindIncome {
			ms.Income = ms.Income.Add(t.Amount)
		} else {
			ms.Expenses = ms.Expenses.Add(t.Amount)
		}
	}
	for _, t := range FilterByTime(led.Income, since, until) {
		add(t)
	}
	for _, t := range FilterByTime(led.Expenses, since, until) {
		add(t)
	}

	// Fill in every month in the range so charts show gaps as zeros
	if !since.IsZero() && !until.IsZero() {
		for m := monthStart(since); m.Before(until); m = m.AddDate(0, 1, 0) {
			key := m.Format("2006-01")
			if _, ok := monthMap[key]; !ok {
				monthMap[key] = &model.MonthlyStats{Month: m}
			}
		}
	}

	months := make([]model.MonthlyStats, 0, len(monthMap))
	for _, ms := range monthMap {
		months = append(months, *ms)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.After(months[j].Month)
	})
	return months
}

// AggregateCategories computes per-category totals of txns within
// [since, until), largest first.
func AggregateCategories(txns []model.Transaction, since, until time.Time) []model.CategoryStats {
	filtered := FilterByTime(txns, since, until)

	catMap := make(map[string]*model.CategoryStats)
	total := decimal.Zero
	for _, t := range filtered {
		name := t.Category
		if name == "" {
			name = "uncategorized"
		}
		cs, ok := catMap[name]
		if !ok {
			cs = &model.CategoryStats{Category: name, Kind: t.Kind}
			catMap[name] = cs
		}
		cs.Count++
		cs.Total = cs.Total.Add(t.Amount)
		total = total.Add(t.Amount)
	}

	cats := make([]model.CategoryStats, 0, len(catMap))
	for _, cs := range catMap {
		if total.IsPositive() {
			cs.SharePercent = cs.Total.Mul(hundred).Div(total).InexactFloat64()
		}
		cats = append(cats, *cs)
	}
	sort.Slice(cats, func(i, j int) bool {
		if c := cats[i].Total.Cmp(cats[j].Total); c != 0 {
			return c > 0
		}
		return cats[i].Category < cats[j].Category
	})
	return cats
}

// CompareCategories sets TrendDirection on current against the same
// categories in the preceding window of equal length.
func CompareCategories(txns []model.Transaction, since, until time.Time) []model.CategoryStats {
	current := AggregateCategories(txns, since, until)
	prevSince := since.Add(-until.Sub(since))
	previous := AggregateCategories(txns, prevSince, since)

	prevTotals := make(map[string]decimal.Decimal, len(previous))
	for _, p := range previous {
		prevTotals[p.Category] = p.Total
	}
	for i := range current {
		prev, ok := prevTotals[current[i].Category]
		switch {
		case !ok || current[i].Total.GreaterThan(prev):
			current[i].TrendDirection = 1
		case current[i].Total.LessThan(prev):
			current[i].TrendDirection = -1
		}
	}
	return current
}

// ComparePeriods summarizes [since, until) and the equal-length window before it.
func ComparePeriods(led model.Ledger, since, until time.Time) model.PeriodComparison {
	prevSince := since.Add(-until.Sub(since))
	return model.PeriodComparison{
		Current:  Summarize(led, since, until),
		Previous: Summarize(led, prevSince, since),
	}
}

// FilterByTime returns transactions whose date falls within [since, until).
func FilterByTime(txns []model.Transaction, since, until time.Time) []model.Transaction {
	if since.IsZero() && until.IsZero() {
		return txns
	}

	var result []model.Transaction
	for _, t := range txns {
		if !since.IsZero() && t.Date.Before(since) {
			continue
		}
		if !until.IsZero() && !t.Date.Before(until) {
			continue
		}
		result = append(result, t)
	}
	return result
}

// FilterByAccount returns the records whose account matches the substring.
func FilterByAccount(led model.Ledger, account string) model.Ledger {
	if account == "" {
		return led
	}
	var out model.Ledger
	for _, t := range led.Income {
		if containsIgnoreCase(t.Account, account) {
			out.Income = append(out.Income, t)
		}
	}
	for _, t := range led.Expenses {
		if containsIgnoreCase(t.Account, account) {
			out.Expenses = append(out.Expenses, t)
		}
	}
	for _, l := range led.Liabilities {
		if containsIgnoreCase(l.Account, account) {
			out.Liabilities = append(out.Liabilities, l)
		}
	}
	return out
}

// FilterByCategory returns transactions whose category matches the substring.
func FilterByCategory(txns []model.Transaction, category string) []model.Transaction {
	if category == "" {
		return txns
	}
	var result []model.Transaction
	for _, t := range txns {
		if containsIgnoreCase(t.Category, category) {
			result = append(result, t)
		}
	}
	return result
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
