package config

import (
	"slices"
	"testing"
)

func TestLookupPreset(t *testing.T) {
	tests := []struct {
		name       string
		wantOK     bool
		wantReturn float64
	}{
		{"moderate", true, 7},
		{"", true, 7},
		{"  Conservative ", true, 5},
		{"balanced", true, 7},
		{"growth", true, 9},
		{"yolo", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, ok := LookupPreset(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if a.ExpectedAnnualReturn != tt.wantReturn {
				t.Errorf("ExpectedAnnualReturn = %v, want %v", a.ExpectedAnnualReturn, tt.wantReturn)
			}
		})
	}
}

func TestPresetNames(t *testing.T) {
	want := []string{"aggressive", "conservative", "moderate"}
	if got := PresetNames(); !slices.Equal(got, want) {
		t.Errorf("PresetNames() = %v, want %v", got, want)
	}
}

func TestFIREConfig_Inputs(t *testing.T) {
	ret := 6.0
	f := FIREConfig{
		CurrentAge:           35,
		TargetRetirementAge:  55,
		CurrentSavings:       80000,
		Preset:               "unknown-preset",
		ExpectedAnnualReturn: &ret,
	}
	in := f.Inputs()
	if in.ExpectedAnnualReturn != 6 {
		t.Errorf("override ignored: return = %v", in.ExpectedAnnualReturn)
	}
	// Unknown preset falls back to moderate for the unset rates.
	if in.InflationRate != 3 || in.WithdrawalRate != 4 {
		t.Errorf("fallback rates = %v/%v, want 3/4", in.InflationRate, in.WithdrawalRate)
	}
	if in.CurrentSavings != 80000 || in.CurrentAge != 35 {
		t.Errorf("profile fields not copied: %+v", in)
	}
}
