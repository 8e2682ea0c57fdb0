// Package model defines the record and result types shared by the fcast
// calculators, the ledger loader and the presentation layers.
package model

import (
	"strings"
	"time"
)

// LiabilityCategory is the closed set of liability kinds.
type LiabilityCategory string

const (
	CategoryMortgage     LiabilityCategory = "mortgage"
	CategoryCarLoan      LiabilityCategory = "car_loan"
	CategoryStudentLoan  LiabilityCategory = "student_loan"
	CategoryCreditCard   LiabilityCategory = "credit_card"
	CategoryPersonalLoan LiabilityCategory = "personal_loan"
	CategoryLineOfCredit LiabilityCategory = "line_of_credit"
	CategoryBusinessLoan LiabilityCategory = "business_loan"
	CategoryOther        LiabilityCategory = "other"
)

// LiabilityCategories lists every category in display order.
var LiabilityCategories = []LiabilityCategory{
	CategoryMortgage,
	CategoryCarLoan,
	CategoryStudentLoan,
	CategoryCreditCard,
	CategoryPersonalLoan,
	CategoryLineOfCredit,
	CategoryBusinessLoan,
	CategoryOther,
}

// ParseLiabilityCategory maps a free-form string onto the closed set.
// Anything unrecognized becomes CategoryOther.
func ParseLiabilityCategory(s string) LiabilityCategory {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, c := range LiabilityCategories {
		if string(c) == norm {
			return c
		}
	}
	return CategoryOther
}

// Label returns a human-readable category name.
func (c LiabilityCategory) Label() string {
	switch c {
	case CategoryMortgage:
		return "Mortgage"
	case CategoryCarLoan:
		return "Car Loan"
	case CategoryStudentLoan:
		return "Student Loan"
	case CategoryCreditCard:
		return "Credit Card"
	case CategoryPersonalLoan:
		return "Personal Loan"
	case CategoryLineOfCredit:
		return "Line of Credit"
	case CategoryBusinessLoan:
		return "Business Loan"
	default:
		return "Other"
	}
}

// Liability is a snapshot of one debt. Rates are annual percentages.
type Liability struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Category       LiabilityCategory `json:"category"`
	Balance        float64           `json:"balance"`
	InterestRate   float64           `json:"interestRate"`
	MinimumPayment float64           `json:"minimumPayment"`
	Account        string            `json:"account,omitempty"`
	FilePath       string            `json:"-"`
}

// DebtPayoffItem is the simulated outcome for a single liability.
type DebtPayoffItem struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Category          LiabilityCategory `json:"category"`
	Balance           float64           `json:"balance"`
	InterestRate      float64           `json:"interestRate"`
	MinimumPayment    float64           `json:"minimumPayment"`
	MonthsToPayoff    int               `json:"monthsToPayoff"`
	PayoffDate        time.Time         `json:"payoffDate"`
	TotalInterestPaid float64           `json:"totalInterestPaid"`

	// MinimumOnlyMonths is the closed-form payoff horizon when only the
	// minimum is ever paid; 0 for non-amortizing debts.
	MinimumOnlyMonths int `json:"minimumOnlyMonths,omitempty"`

	// Resolved is false when the simulation ceiling was hit first.
	Resolved      bool   `json:"resolved"`
	NonAmortizing bool   `json:"nonAmortizing,omitempty"`
	Warning       string `json:"warning,omitempty"`
}

// DebtStrategy is the result of simulating one repayment policy.
type DebtStrategy struct {
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	PayoffOrder       []DebtPayoffItem `json:"payoffOrder"`
	DebtFreeDate      time.Time        `json:"debtFreeDate"`
	TotalMonths       int              `json:"totalMonths"`
	TotalInterestPaid float64          `json:"totalInterestPaid"`
	TotalDebt         float64          `json:"totalDebt"`
	ExtraPayment      float64          `json:"extraMonthlyPayment"`

	DebtFree bool     `json:"debtFree"`
	Complete bool     `json:"complete"`
	Warnings []string `json:"warnings,omitempty"`
}

// DebtComparison pairs both policies over the same portfolio.
type DebtComparison struct {
	Avalanche     DebtStrategy `json:"avalanche"`
	Snowball      DebtStrategy `json:"snowball"`
	Recommended   string       `json:"recommended"`
	InterestSaved float64      `json:"interestSaved"`
	MonthsSaved   int          `json:"monthsSaved"`
}

// RecommendedStrategy returns the strategy named by Recommended.
func (c DebtComparison) RecommendedStrategy() DebtStrategy {
	if c.Recommended == c.Snowball.Name {
		return c.Snowball
	}
	return c.Avalanche
}
