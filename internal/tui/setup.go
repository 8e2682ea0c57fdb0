package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/fcast/internal/config"
	"github.com/theirongolddev/fcast/internal/tui/theme"
)

// SetupValues holds the wizard answers as the form edits them.
type SetupValues struct {
	LedgerDir      string
	CurrentAge     string
	TargetAge      string
	CurrentSavings string
	ExtraPayment   string
	Strategy       string
	Preset         string
	Theme          string
}

// NewSetupValues prefills the wizard from cfg.
func NewSetupValues(cfg config.Config) SetupValues {
	return SetupValues{
		LedgerDir:      config.GetLedgerDir(cfg),
		CurrentAge:     strconv.Itoa(cfg.FIRE.CurrentAge),
		TargetAge:      strconv.Itoa(cfg.FIRE.TargetRetirementAge),
		CurrentSavings: formatAmount(cfg.FIRE.CurrentSavings),
		ExtraPayment:   formatAmount(cfg.Debt.ExtraMonthlyPayment),
		Strategy:       cfg.Debt.Strategy,
		Preset:         config.NormalizePresetName(cfg.FIRE.Preset),
		Theme:          cfg.Appearance.Theme,
	}
}

// NewSetupForm builds the first-run wizard bound to vals.
func NewSetupForm(vals *SetupValues, records int, ledgerDir string) *huh.Form {
	intro := "Let's set up your forecast."
	if records > 0 {
		intro = fmt.Sprintf("Found %d records in %s.\nLet's set up your forecast.", records, ledgerDir)
	}

	presetOpts := make([]huh.Option[string], 0, len(config.PresetNames()))
	for _, name := range config.PresetNames() {
		a, _ := config.LookupPreset(name)
		label := fmt.Sprintf("%s (%.1f%% return, %.1f%% inflation, %.1f%% withdrawal)",
			name, a.ExpectedAnnualReturn, a.InflationRate, a.WithdrawalRate)
		presetOpts = append(presetOpts, huh.NewOption(label, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to fcast").
				Description(intro),
			huh.NewInput().
				Title("Ledger directory").
				Description("Folder of JSONL income, expense and liability files.").
				Value(&vals.LedgerDir).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Current age").
				Value(&vals.CurrentAge).
				Validate(validateAge),
			huh.NewInput().
				Title("Target retirement age").
				Value(&vals.TargetAge).
				Validate(validateAge),
			huh.NewInput().
				Title("Current invested savings").
				Description("Dollars, e.g. 45000").
				Value(&vals.CurrentSavings).
				Validate(validateAmount),
			huh.NewSelect[string]().
				Title("Market assumptions").
				Options(presetOpts...).
				Value(&vals.Preset),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Extra monthly debt payment").
				Description("On top of all minimums. 0 for none.").
				Value(&vals.ExtraPayment).
				Validate(validateAmount),
			huh.NewSelect[string]().
				Title("Payoff strategy").
				Options(
					huh.NewOption("Compare avalanche and snowball", "compare"),
					huh.NewOption("Avalanche (highest rate first)", "avalanche"),
					huh.NewOption("Snowball (smallest balance first)", "snowball"),
				).
				Value(&vals.Strategy),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeCharm())
}

// Apply validates the answers and writes them into cfg.
func (v SetupValues) Apply(cfg *config.Config) error {
	current, err := parseAge(v.CurrentAge)
	if err != nil {
		return fmt.Errorf("current age: %w", err)
	}
	target, err := parseAge(v.TargetAge)
	if err != nil {
		return fmt.Errorf("target age: %w", err)
	}
	if target <= current {
		return errors.New("target retirement age must be after current age")
	}
	savings, err := parseAmount(v.CurrentSavings)
	if err != nil {
		return fmt.Errorf("current savings: %w", err)
	}
	extra, err := parseAmount(v.ExtraPayment)
	if err != nil {
		return fmt.Errorf("extra payment: %w", err)
	}

	cfg.General.LedgerDir = strings.TrimSpace(v.LedgerDir)
	cfg.FIRE.CurrentAge = current
	cfg.FIRE.TargetRetirementAge = target
	cfg.FIRE.CurrentSavings = savings
	cfg.Debt.ExtraMonthlyPayment = extra
	if v.Strategy != "" {
		cfg.Debt.Strategy = v.Strategy
	}
	if _, ok := config.LookupPreset(v.Preset); ok {
		cfg.FIRE.Preset = config.NormalizePresetName(v.Preset)
		// A new preset replaces any hand-tuned rates.
		cfg.FIRE.ExpectedAnnualReturn = nil
		cfg.FIRE.InflationRate = nil
		cfg.FIRE.WithdrawalRate = nil
	}
	if theme.Valid(v.Theme) {
		cfg.Appearance.Theme = v.Theme
	}
	return nil
}

func validateAge(s string) error {
	_, err := parseAge(s)
	return err
}

func validateAmount(s string) error {
	_, err := parseAmount(s)
	return err
}

func parseAge(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("enter a whole number")
	}
	if n < 1 || n > 120 {
		return 0, errors.New("must be between 1 and 120")
	}
	return n, nil
}

// parseAmount accepts plain or "$1,234.50" style dollar amounts. Empty is 0.
func parseAmount(s string) (float64, error) {
	s = strings.NewReplacer("$", "", ",", "", "_", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("enter a dollar amount")
	}
	if v < 0 {
		return 0, errors.New("must not be negative")
	}
	return v, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
