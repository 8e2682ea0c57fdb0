package forecast

import "github.com/theirongolddev/fcast/internal/model"

// Heuristics holds the tunable coefficients of the cash-flow projection.
// They are presentation heuristics, not fitted parameters.
type Heuristics struct {
	RecurringIncomeWeight float64 `toml:"recurring_income_weight" json:"recurringIncomeWeight"`
	DampeningPerMonth     float64 `toml:"dampening_per_month" json:"dampeningPerMonth"`
	DampeningFloor        float64 `toml:"dampening_floor" json:"dampeningFloor"`
	ConfidenceStart       float64 `toml:"confidence_start" json:"confidenceStart"`
	ConfidenceDecay       float64 `toml:"confidence_decay" json:"confidenceDecay"`
	ConfidenceFloor       float64 `toml:"confidence_floor" json:"confidenceFloor"`
	TrendThreshold        float64 `toml:"trend_threshold" json:"trendThreshold"`
}

// DefaultHeuristics returns the stock coefficients.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		RecurringIncomeWeight: 0.3,
		DampeningPerMonth:     0.03,
		DampeningFloor:        0.5,
		ConfidenceStart:       95,
		ConfidenceDecay:       4,
		ConfidenceFloor:       40,
		TrendThreshold:        50,
	}
}

// Dampening is the trend multiplier i months into the horizon.
func (h Heuristics) Dampening(i int) float64 {
	return max(h.DampeningFloor, 1-float64(i)*h.DampeningPerMonth)
}

// Confidence is the 0-100 score i months into the horizon.
func (h Heuristics) Confidence(i int) float64 {
	c := max(h.ConfidenceFloor, h.ConfidenceStart-float64(i)*h.ConfidenceDecay)
	return min(100, max(0, c))
}

// Label classifies a monthly slope against the trend threshold.
func (h Heuristics) Label(slope float64) model.TrendLabel {
	switch {
	case slope > h.TrendThreshold:
		return model.TrendUp
	case slope < -h.TrendThreshold:
		return model.TrendDown
	}
	return model.TrendStable
}

func (h Heuristics) validate() error {
	switch {
	case h.RecurringIncomeWeight < 0:
		return invalid("heuristics.recurringIncomeWeight", "must not be negative")
	case h.DampeningPerMonth < 0:
		return invalid("heuristics.dampeningPerMonth", "must not be negative")
	case h.DampeningFloor < 0 || h.DampeningFloor > 1:
		return invalid("heuristics.dampeningFloor", "must be in [0, 1]")
	case h.ConfidenceDecay < 0:
		return invalid("heuristics.confidenceDecay", "must not be negative")
	case h.ConfidenceFloor < 0 || h.ConfidenceFloor > 100:
		return invalid("heuristics.confidenceFloor", "must be in [0, 100]")
	case h.ConfidenceStart < h.ConfidenceFloor || h.ConfidenceStart > 100:
		return invalid("heuristics.confidenceStart", "must be in [confidenceFloor, 100]")
	case h.TrendThreshold < 0:
		return invalid("heuristics.trendThreshold", "must not be negative")
	}
	return nil
}
