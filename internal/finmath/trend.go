// Package finmath holds the numeric primitives behind the forecasting
// calculators: least-squares trend fitting, loan amortization steps and
// compound growth. Every function is pure.
package finmath

// Fit is an ordinary least-squares line y = Intercept + Slope*x.
type Fit struct {
	Slope     float64
	Intercept float64
	N         int
}

// LinearFit fits ys against their indices 0..n-1 using the
// covariance/variance estimator. With fewer than two points the slope is 0
// and the intercept is the mean (0 for an empty series).
func LinearFit(ys []float64) Fit {
	n := len(ys)
	if n == 0 {
		return Fit{}
	}

	var sumY float64
	for _, y := range ys {
		sumY += y
	}
	meanY := sumY / float64(n)
	if n < 2 {
		return Fit{Intercept: meanY, N: n}
	}

	meanX := float64(n-1) / 2
	var cov, variance float64
	for i, y := range ys {
		dx := float64(i) - meanX
		cov += dx * (y - meanY)
		variance += dx * dx
	}

	slope := cov / variance
	return Fit{
		Slope:     slope,
		Intercept: meanY - slope*meanX,
		N:         n,
	}
}
