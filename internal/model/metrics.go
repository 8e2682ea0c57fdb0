package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSummary holds the top-level aggregate across a ledger window.
type LedgerSummary struct {
	IncomeCount    int
	ExpenseCount   int
	LiabilityCount int
	ActiveMonths   int

	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Net           decimal.Decimal
	SavingsRate   float64 // percent of income kept

	TotalDebt         float64
	TotalMinPayments  float64
	WeightedDebtRate  float64 // balance-weighted annual %
	RecurringIncome   float64 // monthly equivalent
	RecurringExpenses float64 // monthly equivalent
	IncomePerMonth    float64
	ExpensesPerMonth  float64
}

// MonthlyStats holds totals for one calendar month of the ledger.
type MonthlyStats struct {
	Month        time.Time
	Income       decimal.Decimal
	Expenses     decimal.Decimal
	Transactions int
}

// Net returns income minus expenses.
func (m MonthlyStats) Net() decimal.Decimal {
	return m.Income.Sub(m.Expenses)
}

// CategoryStats holds aggregated spend or income for a single category.
type CategoryStats struct {
	Category       string
	Kind           TransactionKind
	Count          int
	Total          decimal.Decimal
	SharePercent   float64
	TrendDirection int // -1, 0, +1 vs previous period
}

// PeriodComparison holds current and previous period data for delta computation.
type PeriodComparison struct {
	Current  LedgerSummary
	Previous LedgerSummary
}
