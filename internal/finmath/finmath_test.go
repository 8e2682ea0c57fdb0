package finmath

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestLinearFit(t *testing.T) {
	tests := []struct {
		name      string
		ys        []float64
		slope     float64
		intercept float64
	}{
		{"empty", nil, 0, 0},
		{"single", []float64{42}, 0, 42},
		{"flat", []float64{5, 5, 5, 5}, 0, 5},
		{"perfect line", []float64{100, 200, 300, 400}, 100, 100},
		{"descending", []float64{10, 8, 6}, -2, 10},
		{"noisy", []float64{1, 3, 2, 4}, 0.8, 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := LinearFit(tt.ys)
			if !almostEqual(f.Slope, tt.slope, 1e-9) {
				t.Errorf("Slope = %v, want %v", f.Slope, tt.slope)
			}
			if !almostEqual(f.Intercept, tt.intercept, 1e-9) {
				t.Errorf("Intercept = %v, want %v", f.Intercept, tt.intercept)
			}
			if f.N != len(tt.ys) {
				t.Errorf("N = %d, want %d", f.N, len(tt.ys))
			}
		})
	}
}

func TestAccrueAndPay(t *testing.T) {
	bal, interest := Accrue(1200, 12)
	if !almostEqual(interest, 12, 1e-9) || !almostEqual(bal, 1212, 1e-9) {
		t.Fatalf("Accrue(1200, 12) = %v, %v, want 1212, 12", bal, interest)
	}

	bal, used := Pay(bal, 2000)
	if bal != 0 || !almostEqual(used, 1212, 1e-9) {
		t.Errorf("Pay overpayment = %v, %v, want 0, 1212", bal, used)
	}

	bal, used = Pay(500, 200)
	if bal != 300 || used != 200 {
		t.Errorf("Pay(500, 200) = %v, %v, want 300, 200", bal, used)
	}

	bal, used = Pay(500, -5)
	if bal != 500 || used != 0 {
		t.Errorf("Pay negative = %v, %v, want 500, 0", bal, used)
	}
}

func TestNonAmortizing(t *testing.T) {
	tests := []struct {
		balance, rate, payment float64
		want                   bool
	}{
		{10000, 24, 250, false},
		{10000, 24, 200.0 - 0.01, true}, // interest is exactly 200
		{10000, 24, 150, true},
		{10000, 0, 1, false},
		{10000, 0, 0, true},
	}
	for _, tt := range tests {
		if got := NonAmortizing(tt.balance, tt.rate, tt.payment); got != tt.want {
			t.Errorf("NonAmortizing(%v, %v, %v) = %v, want %v", tt.balance, tt.rate, tt.payment, got, tt.want)
		}
	}
}

func TestPayoffMonths(t *testing.T) {
	tests := []struct {
		name                   string
		balance, rate, payment float64
		want                   int
		ok                     bool
	}{
		{"zero rate exact", 1000, 0, 100, 10, true},
		{"zero rate remainder", 1050, 0, 100, 11, true},
		{"standard loan", 10000, 6, 193.33, 60, true},
		{"already paid", 0, 10, 50, 0, true},
		{"below interest", 12000, 12, 100, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PayoffMonths(tt.balance, tt.rate, tt.payment)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("PayoffMonths = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGrowth(t *testing.T) {
	if got := FutureValue(1000, 0.1, 2); !almostEqual(got, 1210, 1e-9) {
		t.Errorf("FutureValue = %v, want 1210", got)
	}
	if got := PresentValue(1210, 0.1, 2); !almostEqual(got, 1000, 1e-9) {
		t.Errorf("PresentValue = %v, want 1000", got)
	}
	if got := PresentValue(500, 0.1, 0); got != 500 {
		t.Errorf("PresentValue zero periods = %v, want 500", got)
	}
	if got := AnnuityFutureValue(100, 0, 12); got != 1200 {
		t.Errorf("AnnuityFutureValue zero rate = %v, want 1200", got)
	}
	if got := AnnuityFutureValue(100, 0.1, 2); !almostEqual(got, 210, 1e-9) {
		t.Errorf("AnnuityFutureValue = %v, want 210", got)
	}
}

func TestRequiredPaymentRoundTrip(t *testing.T) {
	const (
		target = 1_000_000.0
		pv     = 50_000.0
		rate   = 0.07 / 12
		n      = 240.0
	)
	p := RequiredPayment(target, pv, rate, n)
	got := FutureValue(pv, rate, n) + AnnuityFutureValue(p, rate, n)
	if !almostEqual(got, target, 1e-6) {
		t.Errorf("round trip = %v, want %v", got, target)
	}

	if got := RequiredPayment(1200, 0, 0, 12); got != 100 {
		t.Errorf("zero rate RequiredPayment = %v, want 100", got)
	}
	if got := RequiredPayment(100, 500, 0.01, 12); got >= 0 {
		t.Errorf("overfunded RequiredPayment = %v, want negative", got)
	}
}

func TestRealRate(t *testing.T) {
	got := RealRate(7, 3)
	want := (1.07/1.03 - 1) * 100
	if !almostEqual(got, want, 1e-12) {
		t.Errorf("RealRate(7, 3) = %v, want %v", got, want)
	}
	if got := RealRate(5, 0); !almostEqual(got, 5, 1e-12) {
		t.Errorf("RealRate(5, 0) = %v, want 5", got)
	}
}
