// Package forecast implements the debt payoff simulator, the FIRE calculator
// and the cash-flow trend forecaster. All entry points are pure functions of
// their arguments and are safe for concurrent use.
package forecast

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/theirongolddev/fcast/internal/finmath"
	"github.com/theirongolddev/fcast/internal/model"
)

const (
	MaxPayoffMonths  = 600           // 50 years
	BalanceTolerance = 0.01          // a balance at or below this counts as paid
	MaxInterestRate  = 1000.0        // annual %
	MaxDebtAmount    = 1_000_000_000 // per liability
	MaxLiabilities   = 100
)

// Policy selects the order in which the extra-payment pool is applied.
type Policy string

const (
	Avalanche Policy = "avalanche"
	Snowball  Policy = "snowball"
)

// ParsePolicy accepts a policy name case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case Avalanche, Snowball:
		return p, nil
	}
	return "", invalid("policy", "unknown policy %q (want avalanche or snowball)", s)
}

// Description is the one-line explanation shown next to a strategy.
func (p Policy) Description() string {
	switch p {
	case Avalanche:
		return "Pay the highest interest rate first to minimize total interest"
	case Snowball:
		return "Pay the smallest balance first for the quickest early wins"
	}
	return ""
}

// compare orders liabilities so the pool target comes first.
func (p Policy) compare(a, b model.Liability) int {
	switch p {
	case Snowball:
		if c := cmp.Compare(a.Balance, b.Balance); c != 0 {
			return c
		}
		return cmp.Compare(b.InterestRate, a.InterestRate)
	default:
		if c := cmp.Compare(b.InterestRate, a.InterestRate); c != 0 {
			return c
		}
		return cmp.Compare(b.Balance, a.Balance)
	}
}

// Order returns a copy of liabilities sorted by the policy. Equal keys keep
// their input order.
func (p Policy) Order(liabilities []model.Liability) []model.Liability {
	ordered := slices.Clone(liabilities)
	slices.SortStableFunc(ordered, p.compare)
	return ordered
}

// Simulate amortizes liabilities month by month under policy, starting in the
// month containing start. Each month every open debt accrues interest and pays
// its minimum; the first open debt in policy order also receives the extra
// pool, which grows by each retired debt's minimum payment.
func Simulate(liabilities []model.Liability, extraMonthlyPayment float64, policy Policy, start time.Time) (model.DebtStrategy, error) {
	policy, err := ParsePolicy(string(policy))
	if err != nil {
		return model.DebtStrategy{}, err
	}
	if err := validateDebts(liabilities, extraMonthlyPayment); err != nil {
		return model.DebtStrategy{}, err
	}
	return simulate(liabilities, extraMonthlyPayment, policy, start), nil
}

// Compare runs both policies over the same portfolio. The recommendation is
// the policy with lower total interest; ties go to avalanche. InterestSaved
// and MonthsSaved measure how far avalanche beats snowball, floored at 0.
func Compare(liabilities []model.Liability, extraMonthlyPayment float64, start time.Time) (model.DebtComparison, error) {
	if err := validateDebts(liabilities, extraMonthlyPayment); err != nil {
		return model.DebtComparison{}, err
	}

	av := simulate(liabilities, extraMonthlyPayment, Avalanche, start)
	sb := simulate(liabilities, extraMonthlyPayment, Snowball, start)

	c := model.DebtComparison{
		Avalanche:   av,
		Snowball:    sb,
		Recommended: string(Avalanche),
		MonthsSaved: max(0, sb.TotalMonths-av.TotalMonths),
	}
	if sb.TotalInterestPaid < av.TotalInterestPaid {
		c.Recommended = string(Snowball)
	}
	if saved := sb.TotalInterestPaid - av.TotalInterestPaid; saved > 0 {
		c.InterestSaved = saved
	}
	return c, nil
}

type debtState struct {
	item     model.DebtPayoffItem
	balance  float64
	interest float64
	open     bool
}

func simulate(liabilities []model.Liability, extra float64, policy Policy, start time.Time) model.DebtStrategy {
	start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())

	s := model.DebtStrategy{
		Name:         string(policy),
		Description:  policy.Description(),
		PayoffOrder:  []model.DebtPayoffItem{},
		ExtraPayment: extra,
		Complete:     true,
	}
	if len(liabilities) == 0 {
		s.DebtFree = true
		s.DebtFreeDate = start
		return s
	}

	ordered := policy.Order(liabilities)
	states := make([]debtState, len(ordered))
	for i, l := range ordered {
		states[i] = debtState{
			item: model.DebtPayoffItem{
				ID:             l.ID,
				Name:           l.Name,
				Category:       model.ParseLiabilityCategory(string(l.Category)),
				Balance:        l.Balance,
				InterestRate:   l.InterestRate,
				MinimumPayment: l.MinimumPayment,
			},
			balance: l.Balance,
			open:    true,
		}
		if months, ok := finmath.PayoffMonths(l.Balance, l.InterestRate, l.MinimumPayment); ok {
			states[i].item.MinimumOnlyMonths = months
		}
		if finmath.NonAmortizing(l.Balance, l.InterestRate, l.MinimumPayment) {
			states[i].item.NonAmortizing = true
			states[i].item.Warning = fmt.Sprintf("minimum payment %.2f does not cover monthly interest %.2f",
				l.MinimumPayment, l.Balance*finmath.MonthlyRate(l.InterestRate))
		}
		s.TotalDebt += l.Balance
	}

	pool := extra
	open := len(states)
	for month := 1; month <= MaxPayoffMonths && open > 0; month++ {
		available := pool

		for i := range states {
			st := &states[i]
			if !st.open {
				continue
			}
			var interest, used float64
			st.balance, interest = finmath.Accrue(st.balance, st.item.InterestRate)
			st.interest += interest
			st.balance, used = finmath.Pay(st.balance, st.item.MinimumPayment)
			available += st.item.MinimumPayment - used
		}

		// The pool lands on the first open debt; overflow from a debt it
		// clears carries to the next one in order.
		for i := range states {
			if available <= 0 {
				break
			}
			st := &states[i]
			if !st.open || st.balance <= 0 {
				continue
			}
			var used float64
			st.balance, used = finmath.Pay(st.balance, available)
			available -= used
		}

		for i := range states {
			st := &states[i]
			if !st.open || st.balance > BalanceTolerance {
				continue
			}
			st.open = false
			st.balance = 0
			st.item.Resolved = true
			st.item.MonthsToPayoff = month
			st.item.PayoffDate = start.AddDate(0, month, 0)
			pool += st.item.MinimumPayment
			open--
		}
	}

	for i := range states {
		st := &states[i]
		st.item.TotalInterestPaid = st.interest
		if st.open {
			st.item.MonthsToPayoff = MaxPayoffMonths
			msg := fmt.Sprintf("not paid off within %d months (%.2f remaining)", MaxPayoffMonths, st.balance)
			if st.item.Warning != "" {
				st.item.Warning += "; " + msg
			} else {
				st.item.Warning = msg
			}
			s.Complete = false
		}
		if st.item.Warning != "" {
			s.Warnings = append(s.Warnings, st.item.Name+": "+st.item.Warning)
		}

		s.PayoffOrder = append(s.PayoffOrder, st.item)
		s.TotalInterestPaid += st.item.TotalInterestPaid
		s.TotalMonths = max(s.TotalMonths, st.item.MonthsToPayoff)
	}

	if s.Complete {
		s.DebtFreeDate = start.AddDate(0, s.TotalMonths, 0)
	}
	return s
}

func validateDebts(liabilities []model.Liability, extra float64) error {
	if err := checkFinite("extraMonthlyPayment", extra); err != nil {
		return err
	}
	if extra < 0 {
		return invalid("extraMonthlyPayment", "must not be negative (got %.2f)", extra)
	}
	if len(liabilities) > MaxLiabilities {
		return invalid("liabilities", "at most %d allowed (got %d)", MaxLiabilities, len(liabilities))
	}

	for i, l := range liabilities {
		field := func(name string) string {
			return fmt.Sprintf("liabilities[%d].%s", i, name)
		}
		for _, f := range []struct {
			name string
			v    float64
		}{
			{"balance", l.Balance},
			{"interestRate", l.InterestRate},
			{"minimumPayment", l.MinimumPayment},
		} {
			if err := checkFinite(field(f.name), f.v); err != nil {
				return err
			}
		}

		switch {
		case l.Balance <= 0:
			return invalid(field("balance"), "must be positive (got %.2f)", l.Balance)
		case l.Balance > MaxDebtAmount:
			return invalid(field("balance"), "exceeds maximum of %.0f", float64(MaxDebtAmount))
		case l.InterestRate < 0:
			return invalid(field("interestRate"), "must not be negative (got %.2f)", l.InterestRate)
		case l.InterestRate > MaxInterestRate:
			return invalid(field("interestRate"), "exceeds maximum of %.0f%%", MaxInterestRate)
		case l.MinimumPayment <= 0:
			return invalid(field("minimumPayment"), "must be positive (got %.2f)", l.MinimumPayment)
		}
	}
	return nil
}
