package forecast

import (
	"errors"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/theirongolddev/fcast/internal/model"
)

var simStart = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func twoDebts() []model.Liability {
	return []model.Liability{
		{ID: "loan", Name: "Auto loan", Category: model.CategoryCarLoan, Balance: 10000, InterestRate: 5, MinimumPayment: 200},
		{ID: "card", Name: "Visa", Category: model.CategoryCreditCard, Balance: 5000, InterestRate: 20, MinimumPayment: 150},
	}
}

func portfolios() map[string][]model.Liability {
	return map[string][]model.Liability{
		"two debts": twoDebts(),
		"small expensive card": {
			{ID: "a", Name: "A", Balance: 800, InterestRate: 29.9, MinimumPayment: 35},
			{ID: "b", Name: "B", Balance: 12000, InterestRate: 6.5, MinimumPayment: 250},
			{ID: "c", Name: "C", Balance: 3500, InterestRate: 18, MinimumPayment: 90},
		},
		"big expensive card": {
			{ID: "a", Name: "A", Balance: 15000, InterestRate: 24, MinimumPayment: 400},
			{ID: "b", Name: "B", Balance: 2000, InterestRate: 4, MinimumPayment: 60},
			{ID: "c", Name: "C", Balance: 6000, InterestRate: 9, MinimumPayment: 150},
			{ID: "d", Name: "D", Balance: 900, InterestRate: 0, MinimumPayment: 25},
		},
	}
}

func TestSimulate_TwoDebtScenario(t *testing.T) {
	withExtra, err := Simulate(twoDebts(), 100, Avalanche, simStart)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	noExtra, err := Simulate(twoDebts(), 0, Avalanche, simStart)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if got := withExtra.PayoffOrder[0].ID; got != "card" {
		t.Fatalf("first avalanche item = %q, want card", got)
	}
	if withExtra.PayoffOrder[0].MonthsToPayoff >= noExtra.PayoffOrder[0].MonthsToPayoff {
		t.Errorf("card payoff with extra = %d, want < %d",
			withExtra.PayoffOrder[0].MonthsToPayoff, noExtra.PayoffOrder[0].MonthsToPayoff)
	}
	if !withExtra.Complete {
		t.Errorf("Complete = false, want true")
	}
	if withExtra.TotalDebt != 15000 {
		t.Errorf("TotalDebt = %v, want 15000", withExtra.TotalDebt)
	}
}

func TestSimulate_ZeroLiabilities(t *testing.T) {
	for _, p := range []Policy{Avalanche, Snowball} {
		s, err := Simulate(nil, 250, p, simStart)
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if s.TotalMonths != 0 {
			t.Errorf("%s: TotalMonths = %d, want 0", p, s.TotalMonths)
		}
		if !s.DebtFree || !s.Complete {
			t.Errorf("%s: DebtFree=%v Complete=%v, want both true", p, s.DebtFree, s.Complete)
		}
		if s.TotalInterestPaid != 0 || len(s.PayoffOrder) != 0 {
			t.Errorf("%s: expected empty terminal state, got %+v", p, s)
		}
		want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		if !s.DebtFreeDate.Equal(want) {
			t.Errorf("%s: DebtFreeDate = %v, want %v", p, s.DebtFreeDate, want)
		}
	}
}

func TestSimulate_InterestConservation(t *testing.T) {
	for name, debts := range portfolios() {
		for _, p := range []Policy{Avalanche, Snowball} {
			s, err := Simulate(debts, 75, p, simStart)
			if err != nil {
				t.Fatalf("%s/%s: %v", name, p, err)
			}
			var sum float64
			maxMonths := 0
			for _, it := range s.PayoffOrder {
				sum += it.TotalInterestPaid
				maxMonths = max(maxMonths, it.MonthsToPayoff)
			}
			if sum != s.TotalInterestPaid {
				t.Errorf("%s/%s: item interest sum = %v, total = %v", name, p, sum, s.TotalInterestPaid)
			}
			if maxMonths != s.TotalMonths {
				t.Errorf("%s/%s: TotalMonths = %d, want max item %d", name, p, s.TotalMonths, maxMonths)
			}
			if want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, s.TotalMonths, 0); !s.DebtFreeDate.Equal(want) {
				t.Errorf("%s/%s: DebtFreeDate = %v, want %v", name, p, s.DebtFreeDate, want)
			}
		}
	}
}

func TestSimulate_AvalancheMinimizesInterest(t *testing.T) {
	for name, debts := range portfolios() {
		for _, extra := range []float64{0, 50, 300} {
			c, err := Compare(debts, extra, simStart)
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if c.Avalanche.TotalInterestPaid > c.Snowball.TotalInterestPaid+1e-9 {
				t.Errorf("%s extra=%v: avalanche interest %.2f > snowball %.2f",
					name, extra, c.Avalanche.TotalInterestPaid, c.Snowball.TotalInterestPaid)
			}
		}
	}
}

func TestSimulate_ExtraPaymentMonotonic(t *testing.T) {
	extras := []float64{0, 25, 100, 250, 1000}
	for name, debts := range portfolios() {
		for _, p := range []Policy{Avalanche, Snowball} {
			prevMonths := math.MaxInt
			prevInterest := math.Inf(1)
			for _, extra := range extras {
				s, err := Simulate(debts, extra, p, simStart)
				if err != nil {
					t.Fatalf("%s/%s: %v", name, p, err)
				}
				if s.TotalMonths > prevMonths {
					t.Errorf("%s/%s extra=%v: TotalMonths %d > previous %d", name, p, extra, s.TotalMonths, prevMonths)
				}
				if s.TotalInterestPaid > prevInterest+1e-9 {
					t.Errorf("%s/%s extra=%v: interest %.4f > previous %.4f", name, p, extra, s.TotalInterestPaid, prevInterest)
				}
				prevMonths, prevInterest = s.TotalMonths, s.TotalInterestPaid
			}
		}
	}
}

func TestPolicyOrder(t *testing.T) {
	debts := []model.Liability{
		{ID: "a", Balance: 500, InterestRate: 10},
		{ID: "b", Balance: 900, InterestRate: 18},
		{ID: "c", Balance: 2000, InterestRate: 10},
		{ID: "d", Balance: 500, InterestRate: 22},
		{ID: "e", Balance: 500, InterestRate: 10},
	}
	ids := func(ls []model.Liability) []string {
		out := make([]string, len(ls))
		for i, l := range ls {
			out[i] = l.ID
		}
		return out
	}

	if got, want := ids(Avalanche.Order(debts)), []string{"d", "b", "c", "a", "e"}; !slices.Equal(got, want) {
		t.Errorf("avalanche order = %v, want %v", got, want)
	}
	if got, want := ids(Snowball.Order(debts)), []string{"d", "a", "e", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("snowball order = %v, want %v", got, want)
	}
	if debts[0].ID != "a" || debts[3].ID != "d" {
		t.Errorf("Order mutated its input: %v", ids(debts))
	}
}

func TestSimulate_RollsFreedMinimumForward(t *testing.T) {
	debts := []model.Liability{
		{ID: "big", Name: "Big", Balance: 1000, MinimumPayment: 100},
		{ID: "small", Name: "Small", Balance: 300, MinimumPayment: 100},
	}
	s, err := Simulate(debts, 0, Snowball, simStart)
	if err != nil {
		t.Fatal(err)
	}

	small, big := s.PayoffOrder[0], s.PayoffOrder[1]
	if small.ID != "small" {
		t.Fatalf("snowball first = %q, want small", small.ID)
	}
	if small.MonthsToPayoff != 3 {
		t.Errorf("small MonthsToPayoff = %d, want 3", small.MonthsToPayoff)
	}
	if big.MonthsToPayoff != 7 {
		t.Errorf("big MonthsToPayoff = %d, want 7 with rolled minimum", big.MonthsToPayoff)
	}
	if want := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC); !small.PayoffDate.Equal(want) {
		t.Errorf("small PayoffDate = %v, want %v", small.PayoffDate, want)
	}
	if s.TotalInterestPaid != 0 {
		t.Errorf("TotalInterestPaid = %v, want 0 for zero-rate debts", s.TotalInterestPaid)
	}
}

func TestSimulate_PoolOverflowCascades(t *testing.T) {
	debts := []model.Liability{
		{ID: "a", Name: "A", Balance: 150, MinimumPayment: 100},
		{ID: "b", Name: "B", Balance: 1000, MinimumPayment: 100},
	}
	s, err := Simulate(debts, 100, Snowball, simStart)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.PayoffOrder[0].MonthsToPayoff; got != 1 {
		t.Errorf("A MonthsToPayoff = %d, want 1", got)
	}
	if got := s.PayoffOrder[1].MonthsToPayoff; got != 4 {
		t.Errorf("B MonthsToPayoff = %d, want 4", got)
	}
}

func TestSimulate_NonAmortizing(t *testing.T) {
	debts := []model.Liability{
		{ID: "trap", Name: "Payday", Balance: 10000, InterestRate: 24, MinimumPayment: 100},
	}

	stuck, err := Simulate(debts, 0, Avalanche, simStart)
	if err != nil {
		t.Fatalf("non-amortizing debt must not be a hard error: %v", err)
	}
	it := stuck.PayoffOrder[0]
	if !it.NonAmortizing || it.Resolved {
		t.Errorf("NonAmortizing=%v Resolved=%v, want true/false", it.NonAmortizing, it.Resolved)
	}
	if it.MonthsToPayoff != MaxPayoffMonths || !it.PayoffDate.IsZero() {
		t.Errorf("unresolved item = %d months, date %v", it.MonthsToPayoff, it.PayoffDate)
	}
	if stuck.Complete || !stuck.DebtFreeDate.IsZero() || len(stuck.Warnings) == 0 {
		t.Errorf("strategy Complete=%v DebtFreeDate=%v Warnings=%v", stuck.Complete, stuck.DebtFreeDate, stuck.Warnings)
	}

	rescued, err := Simulate(debts, 500, Avalanche, simStart)
	if err != nil {
		t.Fatal(err)
	}
	if it := rescued.PayoffOrder[0]; !it.NonAmortizing || !it.Resolved {
		t.Errorf("rescued NonAmortizing=%v Resolved=%v, want true/true", it.NonAmortizing, it.Resolved)
	}
	if !rescued.Complete {
		t.Errorf("rescued Complete = false, want true")
	}
}

func TestSimulate_DoesNotMutateInput(t *testing.T) {
	debts := twoDebts()
	before := slices.Clone(debts)
	if _, err := Compare(debts, 100, simStart); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(debts, before) {
		t.Errorf("input mutated: %+v", debts)
	}
}

func TestCompare(t *testing.T) {
	c, err := Compare(twoDebts(), 100, simStart)
	if err != nil {
		t.Fatal(err)
	}
	if c.Recommended != "avalanche" {
		t.Errorf("Recommended = %q, want avalanche", c.Recommended)
	}
	if c.InterestSaved < 0 {
		t.Errorf("InterestSaved = %v, want >= 0", c.InterestSaved)
	}
	if c.MonthsSaved != max(0, c.Snowball.TotalMonths-c.Avalanche.TotalMonths) {
		t.Errorf("MonthsSaved = %d inconsistent", c.MonthsSaved)
	}
	if got := c.RecommendedStrategy().Name; got != "avalanche" {
		t.Errorf("RecommendedStrategy = %q", got)
	}

	// A single debt is identical under both policies, so the tie goes to avalanche.
	single := twoDebts()[:1]
	c, err = Compare(single, 0, simStart)
	if err != nil {
		t.Fatal(err)
	}
	if c.Recommended != "avalanche" || c.InterestSaved != 0 {
		t.Errorf("tie: Recommended=%q InterestSaved=%v", c.Recommended, c.InterestSaved)
	}
}

func TestSimulate_Validation(t *testing.T) {
	good := model.Liability{ID: "x", Balance: 100, InterestRate: 5, MinimumPayment: 10}
	with := func(mod func(*model.Liability)) []model.Liability {
		l := good
		mod(&l)
		return []model.Liability{l}
	}

	tests := []struct {
		name   string
		debts  []model.Liability
		extra  float64
		policy Policy
		field  string
	}{
		{"negative extra", []model.Liability{good}, -1, Avalanche, "extraMonthlyPayment"},
		{"nan extra", []model.Liability{good}, math.NaN(), Avalanche, "extraMonthlyPayment"},
		{"unknown policy", []model.Liability{good}, 0, "blizzard", "policy"},
		{"zero balance", with(func(l *model.Liability) { l.Balance = 0 }), 0, Avalanche, "liabilities[0].balance"},
		{"negative balance", with(func(l *model.Liability) { l.Balance = -50 }), 0, Snowball, "liabilities[0].balance"},
		{"negative rate", with(func(l *model.Liability) { l.InterestRate = -1 }), 0, Avalanche, "liabilities[0].interestRate"},
		{"absurd rate", with(func(l *model.Liability) { l.InterestRate = 5000 }), 0, Avalanche, "liabilities[0].interestRate"},
		{"zero minimum", with(func(l *model.Liability) { l.MinimumPayment = 0 }), 0, Avalanche, "liabilities[0].minimumPayment"},
		{"infinite minimum", with(func(l *model.Liability) { l.MinimumPayment = math.Inf(1) }), 0, Avalanche, "liabilities[0].minimumPayment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Simulate(tt.debts, tt.extra, tt.policy, simStart)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}

	tooMany := make([]model.Liability, MaxLiabilities+1)
	for i := range tooMany {
		tooMany[i] = good
	}
	if _, err := Compare(tooMany, 0, simStart); !IsValidation(err) {
		t.Errorf("too many liabilities: err = %v, want validation error", err)
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"avalanche": Avalanche, " Snowball ": Snowball, "AVALANCHE": Avalanche} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %q, %v, want %q", in, got, err, want)
		}
	}
	if _, err := ParsePolicy("compare"); err == nil {
		t.Error("ParsePolicy(compare) succeeded, want error")
	}
}

func TestSimulate_NormalizesPolicy(t *testing.T) {
	debts := []model.Liability{
		{ID: "big", Name: "Big", Balance: 9000, InterestRate: 22, MinimumPayment: 250},
		{ID: "small", Name: "Small", Balance: 700, InterestRate: 8, MinimumPayment: 40},
	}
	tests := []struct {
		policy    Policy
		wantName  string
		wantFirst string
	}{
		{"Snowball", "snowball", "small"},
		{" SNOWBALL", "snowball", "small"},
		{"Avalanche", "avalanche", "big"},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			s, err := Simulate(debts, 100, tt.policy, simStart)
			if err != nil {
				t.Fatalf("Simulate: %v", err)
			}
			if s.Name != tt.wantName || s.Description == "" {
				t.Errorf("Name=%q Description=%q, want %q and a description", s.Name, s.Description, tt.wantName)
			}
			if got := s.PayoffOrder[0].ID; got != tt.wantFirst {
				t.Errorf("first item = %q, want %q", got, tt.wantFirst)
			}
		})
	}
}

func TestSimulate_MinimumOnlyMonths(t *testing.T) {
	s, err := Simulate(twoDebts(), 0, Avalanche, simStart)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]int{"card": 50, "loan": 57}
	for _, it := range s.PayoffOrder {
		if it.MinimumOnlyMonths != want[it.ID] {
			t.Errorf("%s MinimumOnlyMonths = %d, want %d", it.ID, it.MinimumOnlyMonths, want[it.ID])
		}
		// Rolled-forward minimums can only shorten the simulated payoff.
		if it.MonthsToPayoff > it.MinimumOnlyMonths {
			t.Errorf("%s simulated %d months, longer than minimum-only %d", it.ID, it.MonthsToPayoff, it.MinimumOnlyMonths)
		}
	}

	trap, err := Simulate([]model.Liability{{ID: "trap", Name: "Payday", Balance: 10000, InterestRate: 24, MinimumPayment: 100}}, 0, Avalanche, simStart)
	if err != nil {
		t.Fatal(err)
	}
	if got := trap.PayoffOrder[0].MinimumOnlyMonths; got != 0 {
		t.Errorf("non-amortizing MinimumOnlyMonths = %d, want 0", got)
	}
}

func TestCompare_SavingsNeverNegative(t *testing.T) {
	for name, debts := range portfolios() {
		for _, extra := range []float64{0, 75, 400} {
			c, err := Compare(debts, extra, simStart)
			if err != nil {
				t.Fatalf("%s: %v", name, err)
			}
			if c.MonthsSaved < 0 || c.InterestSaved < 0 {
				t.Errorf("%s extra %v: MonthsSaved=%d InterestSaved=%v", name, extra, c.MonthsSaved, c.InterestSaved)
			}
		}
	}
}
