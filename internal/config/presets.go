package config

import (
	"sort"
	"strings"
)

// DefaultPreset names the assumptions used when none is configured.
const DefaultPreset = "moderate"

// Assumptions holds the market rates behind a FIRE projection, in percent.
type Assumptions struct {
	ExpectedAnnualReturn float64
	InflationRate        float64
	WithdrawalRate       float64
}

// Presets maps preset names to their market assumptions.
var Presets = map[string]Assumptions{
	"conservative": {
		ExpectedAnnualReturn: 5, InflationRate: 3, WithdrawalRate: 3.5,
	},
	"moderate": {
		ExpectedAnnualReturn: 7, InflationRate: 3, WithdrawalRate: 4,
	},
	"aggressive": {
		ExpectedAnnualReturn: 9, InflationRate: 2.5, WithdrawalRate: 4.5,
	},
}

var presetAliases = map[string]string{
	"default":  "moderate",
	"balanced": "moderate",
	"safe":     "conservative",
	"growth":   "aggressive",
}

// NormalizePresetName lowercases name and resolves aliases.
// e.g., " Balanced " -> "moderate"
func NormalizePresetName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := presetAliases[n]; ok {
		return alias
	}
	return n
}

// LookupPreset returns the assumptions for name. An empty name selects
// DefaultPreset.
func LookupPreset(name string) (Assumptions, bool) {
	if strings.TrimSpace(name) == "" {
		name = DefaultPreset
	}
	a, ok := Presets[NormalizePresetName(name)]
	return a, ok
}

// PresetNames returns the canonical preset names in ascending order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
