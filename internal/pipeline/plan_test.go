package pipeline

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

func sampleFIRE() model.FIREInputs {
	return model.FIREInputs{
		CurrentAge:           30,
		TargetRetirementAge:  60,
		CurrentSavings:       50000,
		ExpectedAnnualReturn: 7,
		InflationRate:        3,
		WithdrawalRate:       4,
	}
}

func TestBuildPlan(t *testing.T) {
	led := loadSample(t)
	p := BuildPlan(led, PlanOptions{
		AsOf:         time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local),
		ExtraPayment: 300,
		FIRE:         sampleFIRE(),
	})

	if p.DebtErr != nil || p.FIREErr != nil || p.CashFlowErr != nil {
		t.Fatalf("errors: debt=%v fire=%v cashflow=%v", p.DebtErr, p.FIREErr, p.CashFlowErr)
	}

	if p.Debt.Recommended != string(forecast.Avalanche) {
		t.Errorf("Recommended = %q, want avalanche", p.Debt.Recommended)
	}
	if !p.Debt.Avalanche.Complete || p.Debt.Avalanche.TotalDebt != 13000 {
		t.Errorf("avalanche = complete %v, total %v", p.Debt.Avalanche.Complete, p.Debt.Avalanche.TotalDebt)
	}

	// Expenses and savings come from the six-month ledger averages.
	if math.Abs(p.FIRE.FIRENumber-720000) > 0.01 {
		t.Errorf("FIRENumber = %v, want 720000", p.FIRE.FIRENumber)
	}
	if math.Abs(p.FIRE.CurrentSavingsRate-52) > 1e-9 {
		t.Errorf("CurrentSavingsRate = %v, want 52", p.FIRE.CurrentSavingsRate)
	}

	if got := len(p.CashFlow.Projected()); got != forecast.DefaultHorizonMonths {
		t.Errorf("projected points = %d, want %d", got, forecast.DefaultHorizonMonths)
	}
	if p.Summary.IncomeCount != 6 {
		t.Errorf("summary income count = %d, want 6", p.Summary.IncomeCount)
	}
}

func TestBuildPlan_ExplicitSavings(t *testing.T) {
	in := sampleFIRE()
	in.MonthlyExpenses = 4000
	savings := 1000.0

	p := BuildPlan(loadSample(t), PlanOptions{
		AsOf:           time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local),
		FIRE:           in,
		MonthlySavings: &savings,
	})
	if p.FIREErr != nil {
		t.Fatalf("FIREErr: %v", p.FIREErr)
	}
	if math.Abs(p.FIRE.FIRENumber-1200000) > 0.01 {
		t.Errorf("FIRENumber = %v, want 1200000", p.FIRE.FIRENumber)
	}
	if math.Abs(p.FIRE.CurrentSavingsRate-20) > 1e-9 {
		t.Errorf("CurrentSavingsRate = %v, want 20", p.FIRE.CurrentSavingsRate)
	}
}

func TestBuildPlan_EmptyLedger(t *testing.T) {
	p := BuildPlan(model.Ledger{}, PlanOptions{
		AsOf: time.Date(2025, 6, 15, 0, 0, 0, 0, time.Local),
		FIRE: sampleFIRE(),
	})

	if p.DebtErr != nil {
		t.Errorf("DebtErr = %v, want nil", p.DebtErr)
	}
	if !p.Debt.Avalanche.DebtFree {
		t.Error("empty portfolio should be debt free")
	}
	if !errors.Is(p.CashFlowErr, forecast.ErrInsufficientHistory) {
		t.Errorf("CashFlowErr = %v, want ErrInsufficientHistory", p.CashFlowErr)
	}
	if !forecast.IsValidation(p.FIREErr) {
		t.Errorf("FIREErr = %v, want validation error for zero expenses", p.FIREErr)
	}
}
