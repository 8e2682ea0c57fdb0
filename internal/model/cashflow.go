package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Recurrence is how often a transaction repeats.
type Recurrence string

const (
	RecurrenceOneTime   Recurrence = "one_time"
	RecurrenceDaily     Recurrence = "daily"
	RecurrenceWeekly    Recurrence = "weekly"
	RecurrenceBiweekly  Recurrence = "biweekly"
	RecurrenceMonthly   Recurrence = "monthly"
	RecurrenceQuarterly Recurrence = "quarterly"
	RecurrenceYearly    Recurrence = "yearly"
)

// ParseRecurrence maps a free-form string onto the closed set.
// Empty or unknown values become RecurrenceOneTime.
func ParseRecurrence(s string) Recurrence {
	switch r := Recurrence(strings.ToLower(strings.TrimSpace(s))); r {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceBiweekly,
		RecurrenceMonthly, RecurrenceQuarterly, RecurrenceYearly:
		return r
	case "annual", "annually":
		return RecurrenceYearly
	case "fortnightly":
		return RecurrenceBiweekly
	}
	return RecurrenceOneTime
}

// MonthlyFactor converts one occurrence to a monthly-equivalent multiplier.
// One-time transactions have no monthly equivalent.
func (r Recurrence) MonthlyFactor() float64 {
	switch r {
	case RecurrenceDaily:
		return 30
	case RecurrenceWeekly:
		return 4.33
	case RecurrenceBiweekly:
		return 2.17
	case RecurrenceMonthly:
		return 1
	case RecurrenceQuarterly:
		return 1.0 / 3
	case RecurrenceYearly:
		return 1.0 / 12
	}
	return 0
}

// TransactionKind distinguishes income from expense records.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// Transaction is one income or expense record.
type Transaction struct {
	ID                string          `json:"id"`
	Kind              TransactionKind `json:"kind"`
	Date              time.Time       `json:"date"`
	Amount            decimal.Decimal `json:"amount"`
	Description       string          `json:"description"`
	Category          string          `json:"category,omitempty"`
	Recurrence        Recurrence      `json:"recurrence"`
	RecurrenceEndDate *time.Time      `json:"recurrenceEndDate,omitempty"`
	Account           string          `json:"account,omitempty"`
	FilePath          string          `json:"-"`
}

// IsRecurring reports whether the transaction repeats.
func (t Transaction) IsRecurring() bool {
	return t.Recurrence != "" && t.Recurrence != RecurrenceOneTime
}

// ActiveAt reports whether a recurring transaction is still running at asOf.
func (t Transaction) ActiveAt(asOf time.Time) bool {
	if !t.IsRecurring() {
		return false
	}
	return t.RecurrenceEndDate == nil || !t.RecurrenceEndDate.Before(asOf)
}

// MonthlyAggregate is the income and expense total for one calendar month.
type MonthlyAggregate struct {
	Month    string          `json:"month"` // YYYY-MM
	Start    time.Time       `json:"-"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// Valid reports whether the month had any activity.
func (m MonthlyAggregate) Valid() bool {
	return !m.Income.IsZero() || !m.Expenses.IsZero()
}

// ProjectionPoint is one month of the cash-flow series, historical or projected.
type ProjectionPoint struct {
	Month             string  `json:"month"`
	MonthLabel        string  `json:"monthLabel"`
	ProjectedIncome   float64 `json:"projectedIncome"`
	ProjectedExpenses float64 `json:"projectedExpenses"`
	NetCashFlow       float64 `json:"netCashFlow"`
	CumulativeBalance float64 `json:"cumulativeBalance"`
	IsProjected       bool    `json:"isProjected"`
	Confidence        float64 `json:"confidence"`
}

// TrendLabel classifies a fitted slope.
type TrendLabel string

const (
	TrendUp     TrendLabel = "up"
	TrendDown   TrendLabel = "down"
	TrendStable TrendLabel = "stable"
)

// CashFlowInsights summarizes the projected horizon.
type CashFlowInsights struct {
	TotalProjectedIncome   float64    `json:"totalProjectedIncome"`
	TotalProjectedExpenses float64    `json:"totalProjectedExpenses"`
	AvgMonthlySavings      float64    `json:"avgMonthlySavings"`
	SavingsRate            float64    `json:"savingsRate"`
	NegativeMonths         int        `json:"negativeMonths"`
	MinCumulativeBalance   float64    `json:"minCumulativeBalance"`
	MaxCumulativeBalance   float64    `json:"maxCumulativeBalance"`
	EndOfYearBalance       float64    `json:"endOfYearBalance"`
	IncomeTrend            TrendLabel `json:"incomeTrend"`
	ExpenseTrend           TrendLabel `json:"expenseTrend"`

	IncomeSlope         float64 `json:"incomeSlope"`
	ExpenseSlope        float64 `json:"expenseSlope"`
	AvgIncome           float64 `json:"avgIncome"`
	AvgExpenses         float64 `json:"avgExpenses"`
	BaseRecurringIncome float64 `json:"baseRecurringIncome"`
	ValidMonths         int     `json:"validMonths"`
}

// CashFlowProjection is the forecaster output.
type CashFlowProjection struct {
	History        []MonthlyAggregate `json:"history"`
	ProjectionData []ProjectionPoint  `json:"projectionData"`
	Insights       CashFlowInsights   `json:"insights"`
}

// Projected returns only the forecast points.
func (p CashFlowProjection) Projected() []ProjectionPoint {
	for i, pt := range p.ProjectionData {
		if pt.IsProjected {
			return p.ProjectionData[i:]
		}
	}
	return nil
}
