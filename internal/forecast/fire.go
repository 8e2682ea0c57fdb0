package forecast

import (
	"math"

	"github.com/theirongolddev/fcast/internal/finmath"
	"github.com/theirongolddev/fcast/internal/model"
)

const (
	CoastReferenceAge = 65  // coast target age unless the plan retires later
	FIRESearchAge     = 100 // yearsToFIRE is searched up to this age or the target age, whichever is later
	MaxAge            = 120

	leanMultiplier = 0.5
	fatMultiplier  = 1.5
)

// CalculateFIRE derives FIRE targets and a year-by-year accumulation curve.
// The projection and all target variants compound annually; only the
// required monthly contribution uses monthly compounding.
func CalculateFIRE(in model.FIREInputs, currentMonthlySavings float64) (model.FIREResults, error) {
	if err := validateFIRE(in, currentMonthlySavings); err != nil {
		return model.FIREResults{}, err
	}

	annualReturn := in.ExpectedAnnualReturn / 100
	annualExpenses := in.MonthlyExpenses * 12
	fireNumber := annualExpenses / (in.WithdrawalRate / 100)

	res := model.FIREResults{
		FIRENumber:        fireNumber,
		LeanFIRENumber:    fireNumber * leanMultiplier,
		FatFIRENumber:     fireNumber * fatMultiplier,
		CoastReferenceAge: max(CoastReferenceAge, in.TargetRetirementAge),
		RealAnnualReturn:  finmath.RealRate(in.ExpectedAnnualReturn, in.InflationRate),
	}
	res.CoastFIRENumber = finmath.PresentValue(fireNumber, annualReturn, float64(res.CoastReferenceAge-in.CurrentAge))

	horizon := in.TargetRetirementAge - in.CurrentAge
	res.InflationAdjustedFIRENumber = finmath.FutureValue(fireNumber, in.InflationRate/100, float64(horizon))

	// Year n holds the grown starting balance plus n end-of-year contributions.
	contribution := currentMonthlySavings * 12
	res.YearlyProjections = make([]model.YearlyProjection, 0, horizon+1)
	for year := 0; year <= horizon; year++ {
		n := float64(year)
		savings := finmath.FutureValue(in.CurrentSavings, annualReturn, n) +
			finmath.AnnuityFutureValue(contribution, annualReturn, n)
		res.YearlyProjections = append(res.YearlyProjections, model.YearlyProjection{
			Year:            year,
			Age:             in.CurrentAge + year,
			Savings:         savings,
			PercentComplete: percentOf(savings, fireNumber),
		})
	}

	res.YearsToFIRE, res.Reachable = yearsToTarget(in.CurrentSavings, fireNumber, annualReturn, contribution,
		max(FIRESearchAge, in.TargetRetirementAge)-in.CurrentAge)
	res.ProjectedRetirementAge = float64(in.CurrentAge) + res.YearsToFIRE
	res.OnTrack = res.Reachable && res.ProjectedRetirementAge <= float64(in.TargetRetirementAge)

	months := float64(horizon * 12)
	needed := finmath.RequiredPayment(fireNumber, in.CurrentSavings, annualReturn/12, months)
	res.MonthlySavingsNeeded = math.Max(0, needed)

	res.ProgressPercentage = percentOf(in.CurrentSavings, fireNumber)
	res.CurrentSavingsRate = currentMonthlySavings / (currentMonthlySavings + in.MonthlyExpenses) * 100

	return res, nil
}

// yearsToTarget returns the fractional number of years until balance reaches
// target, interpolating linearly inside the crossing year. When the target is
// not reached within maxYears it returns maxYears and false.
func yearsToTarget(balance, target, rate, contribution float64, maxYears int) (float64, bool) {
	if balance >= target {
		return 0, true
	}
	for year := 1; year <= maxYears; year++ {
		next := balance*(1+rate) + contribution
		if next >= target {
			frac := (target - balance) / (next - balance)
			return float64(year-1) + frac, true
		}
		balance = next
	}
	return float64(max(maxYears, 0)), false
}

func percentOf(v, target float64) float64 {
	if target <= 0 {
		return 100
	}
	return math.Max(0, math.Min(100, v/target*100))
}

func validateFIRE(in model.FIREInputs, monthlySavings float64) error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"monthlyExpenses", in.MonthlyExpenses},
		{"currentSavings", in.CurrentSavings},
		{"expectedAnnualReturn", in.ExpectedAnnualReturn},
		{"inflationRate", in.InflationRate},
		{"withdrawalRate", in.WithdrawalRate},
		{"currentMonthlySavings", monthlySavings},
	} {
		if err := checkFinite(f.name, f.v); err != nil {
			return err
		}
	}

	switch {
	case in.CurrentAge < 0 || in.CurrentAge > MaxAge:
		return invalid("currentAge", "must be between 0 and %d (got %d)", MaxAge, in.CurrentAge)
	case in.TargetRetirementAge <= in.CurrentAge:
		return invalid("targetRetirementAge", "must be greater than current age %d (got %d)", in.CurrentAge, in.TargetRetirementAge)
	case in.TargetRetirementAge > MaxAge:
		return invalid("targetRetirementAge", "must be at most %d (got %d)", MaxAge, in.TargetRetirementAge)
	case in.MonthlyExpenses <= 0:
		return invalid("monthlyExpenses", "must be positive (got %.2f)", in.MonthlyExpenses)
	case in.CurrentSavings < 0:
		return invalid("currentSavings", "must not be negative (got %.2f)", in.CurrentSavings)
	case in.WithdrawalRate <= 0 || in.WithdrawalRate > 100:
		return invalid("withdrawalRate", "must be in (0, 100] (got %.2f)", in.WithdrawalRate)
	case in.ExpectedAnnualReturn <= -100:
		return invalid("expectedAnnualReturn", "must be greater than -100 (got %.2f)", in.ExpectedAnnualReturn)
	case in.InflationRate <= -100:
		return invalid("inflationRate", "must be greater than -100 (got %.2f)", in.InflationRate)
	case monthlySavings < 0:
		return invalid("currentMonthlySavings", "must not be negative (got %.2f)", monthlySavings)
	}
	return nil
}
