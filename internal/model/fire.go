package model

// FIREInputs describes a spending and savings profile. Rates are percentages.
type FIREInputs struct {
	CurrentAge           int     `json:"currentAge"`
	TargetRetirementAge  int     `json:"targetRetirementAge"`
	MonthlyExpenses      float64 `json:"monthlyExpenses"`
	CurrentSavings       float64 `json:"currentSavings"`
	ExpectedAnnualReturn float64 `json:"expectedAnnualReturn"`
	InflationRate        float64 `json:"inflationRate"`
	WithdrawalRate       float64 `json:"withdrawalRate"`
}

// YearlyProjection is one row of the accumulation table.
type YearlyProjection struct {
	Year            int     `json:"year"`
	Age             int     `json:"age"`
	Savings         float64 `json:"savings"`
	PercentComplete float64 `json:"percentComplete"`
}

// FIREResults holds the targets and projection for a FIREInputs profile.
type FIREResults struct {
	FIRENumber             float64 `json:"fireNumber"`
	LeanFIRENumber         float64 `json:"leanFIRENumber"`
	FatFIRENumber          float64 `json:"fatFIRENumber"`
	CoastFIRENumber        float64 `json:"coastFIRENumber"`
	CoastReferenceAge      int     `json:"coastReferenceAge"`
	YearsToFIRE            float64 `json:"yearsToFIRE"`
	ProjectedRetirementAge float64 `json:"projectedRetirementAge"`
	Reachable              bool    `json:"reachable"`
	MonthlySavingsNeeded   float64 `json:"monthlySavingsNeeded"`
	OnTrack                bool    `json:"onTrack"`
	ProgressPercentage     float64 `json:"progressPercentage"`
	CurrentSavingsRate     float64 `json:"currentSavingsRate"`

	RealAnnualReturn            float64 `json:"realAnnualReturn"`
	InflationAdjustedFIRENumber float64 `json:"inflationAdjustedFIRENumber"`

	YearlyProjections []YearlyProjection `json:"yearlyProjections"`
}
