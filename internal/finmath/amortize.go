package finmath

import "math"

// MonthlyRate converts an annual percentage rate to a monthly decimal rate.
func MonthlyRate(annualPct float64) float64 {
	return annualPct / 100 / 12
}

// Accrue applies one month of interest to balance.
// It returns the new balance and the interest added.
func Accrue(balance, annualPct float64) (float64, float64) {
	interest := balance * MonthlyRate(annualPct)
	return balance + interest, interest
}

// Pay applies up to payment against balance and returns the new balance
// and the amount actually used. Overpayment is never consumed.
func Pay(balance, payment float64) (float64, float64) {
	if payment <= 0 || balance <= 0 {
		return balance, 0
	}
	if payment >= balance {
		return 0, balance
	}
	return balance - payment, payment
}

// NonAmortizing reports whether payment fails to cover the first month's
// interest on balance, so the debt would never shrink on its own.
func NonAmortizing(balance, annualPct, payment float64) bool {
	if annualPct <= 0 {
		return payment <= 0
	}
	return payment <= balance*MonthlyRate(annualPct)
}

// PayoffMonths returns how many whole months a fixed payment needs to clear
// balance at annualPct, using the closed-form annuity solution. ok is false
// when the payment never retires the debt.
func PayoffMonths(balance, annualPct, payment float64) (months int, ok bool) {
	if balance <= 0 {
		return 0, true
	}
	if NonAmortizing(balance, annualPct, payment) {
		return 0, false
	}
	r := MonthlyRate(annualPct)
	var n float64
	if r == 0 {
		n = balance / payment
	} else {
		n = -math.Log(1-r*balance/payment) / math.Log(1+r)
	}
	// Shave float noise so exact multiples do not round up a month.
	return int(math.Ceil(n - 1e-9)), true
}
