package finmath

import "math"

// Compound returns the growth factor (1+rate)^periods.
func Compound(rate, periods float64) float64 {
	return math.Pow(1+rate, periods)
}

// FutureValue grows pv at rate per period for the given number of periods.
func FutureValue(pv, rate, periods float64) float64 {
	return pv * Compound(rate, periods)
}

// PresentValue discounts fv at rate per period over periods.
func PresentValue(fv, rate, periods float64) float64 {
	if periods <= 0 {
		return fv
	}
	return fv / Compound(rate, periods)
}

// AnnuityFutureValue is the value after n end-of-period contributions of
// payment growing at rate per period.
func AnnuityFutureValue(payment, rate, n float64) float64 {
	if rate == 0 {
		return payment * n
	}
	return payment * (Compound(rate, n) - 1) / rate
}

// RequiredPayment solves target = pv*(1+r)^n + p*((1+r)^n-1)/r for p.
// The result is negative when pv alone already overshoots target.
// With n <= 0 the shortfall is returned as a single payment.
func RequiredPayment(target, pv, rate, n float64) float64 {
	if n <= 0 {
		return target - pv
	}
	shortfall := target - FutureValue(pv, rate, n)
	if rate == 0 {
		return shortfall / n
	}
	return shortfall / ((Compound(rate, n) - 1) / rate)
}

// RealRate converts a nominal percentage to an inflation-adjusted one using
// the Fisher relation. Both inputs and the result are percentages.
func RealRate(nominalPct, inflationPct float64) float64 {
	return ((1+nominalPct/100)/(1+inflationPct/100) - 1) * 100
}
