package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fcast/internal/cli"
	"github.com/theirongolddev/fcast/internal/config"
	"github.com/theirongolddev/fcast/internal/tui/components"
	"github.com/theirongolddev/fcast/internal/tui/theme"
)

const (
	settingsFieldTheme = iota
	settingsFieldExtraPayment
	settingsFieldStrategy
	settingsFieldPreset
	settingsFieldCurrentAge
	settingsFieldTargetAge
	settingsFieldCurrentSavings
	settingsFieldMonthlyExpenses
	settingsFieldLookback
	settingsFieldHorizon
	settingsFieldAutoRefresh
	settingsFieldRefreshInterval
	settingsFieldCount // sentinel
)

var settingsLabels = [settingsFieldCount]string{
	"Theme",
	"Extra Payment",
	"Debt Strategy",
	"FIRE Preset",
	"Current Age",
	"Target Age",
	"Current Savings",
	"Monthly Expenses",
	"Lookback Months",
	"Horizon Months",
	"Auto Refresh",
	"Refresh Interval",
}

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save or parse failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 40
	return ti
}

// settingsValue renders the current value of a field from cfg.
func (a App) settingsValue(cfg config.Config, field int) string {
	switch field {
	case settingsFieldTheme:
		return cfg.Appearance.Theme
	case settingsFieldExtraPayment:
		return formatAmount(cfg.Debt.ExtraMonthlyPayment)
	case settingsFieldStrategy:
		return cfg.Debt.Strategy
	case settingsFieldPreset:
		return config.NormalizePresetName(cfg.FIRE.Preset)
	case settingsFieldCurrentAge:
		return strconv.Itoa(cfg.FIRE.CurrentAge)
	case settingsFieldTargetAge:
		return strconv.Itoa(cfg.FIRE.TargetRetirementAge)
	case settingsFieldCurrentSavings:
		return formatAmount(cfg.FIRE.CurrentSavings)
	case settingsFieldMonthlyExpenses:
		if cfg.FIRE.MonthlyExpenses == 0 {
			return ""
		}
		return formatAmount(cfg.FIRE.MonthlyExpenses)
	case settingsFieldLookback:
		return strconv.Itoa(cfg.CashFlow.LookbackMonths)
	case settingsFieldHorizon:
		return strconv.Itoa(cfg.CashFlow.HorizonMonths)
	case settingsFieldAutoRefresh:
		return strconv.FormatBool(a.autoRefresh)
	case settingsFieldRefreshInterval:
		return strconv.Itoa(int(a.refreshInterval.Seconds()))
	}
	return ""
}

func settingsPlaceholder(field int) string {
	switch field {
	case settingsFieldTheme:
		return strings.Join(theme.Names(), ", ")
	case settingsFieldStrategy:
		return "compare, avalanche or snowball"
	case settingsFieldPreset:
		return strings.Join(config.PresetNames(), ", ")
	case settingsFieldMonthlyExpenses:
		return "empty = ledger average"
	case settingsFieldAutoRefresh:
		return "true or false"
	case settingsFieldRefreshInterval:
		return "seconds, minimum 10"
	}
	return ""
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false
	a.settings.saveErr = nil

	ti := newSettingsInput()
	ti.Placeholder = settingsPlaceholder(a.settings.cursor)
	ti.SetValue(a.settingsValue(cfg, a.settings.cursor))
	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave parses the edited value into the config, saves it and
// recomputes the plan with the new inputs.
func (a *App) settingsSave() {
	cfg := loadConfigOrDefault()
	if err := a.applySetting(&cfg, a.settings.cursor, strings.TrimSpace(a.settings.input.Value())); err != nil {
		a.settings.saveErr = err
		return
	}
	a.applyConfig(cfg)
	a.recompute()
	a.settings.saveErr = config.Save(cfg)
}

func (a *App) applySetting(cfg *config.Config, field int, val string) error {
	positiveInt := func(lo, hi int) (int, error) {
		n, err := strconv.Atoi(val)
		if err != nil || n < lo || n > hi {
			return 0, fmt.Errorf("%s must be a whole number from %d to %d", settingsLabels[field], lo, hi)
		}
		return n, nil
	}

	switch field {
	case settingsFieldTheme:
		if !theme.Valid(val) {
			return fmt.Errorf("unknown theme %q", val)
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldExtraPayment:
		v, err := parseAmount(val)
		if err != nil {
			return err
		}
		cfg.Debt.ExtraMonthlyPayment = v
	case settingsFieldStrategy:
		switch strings.ToLower(val) {
		case "compare", "avalanche", "snowball":
			cfg.Debt.Strategy = strings.ToLower(val)
		default:
			return fmt.Errorf("unknown strategy %q", val)
		}
	case settingsFieldPreset:
		if _, ok := config.LookupPreset(val); !ok {
			return fmt.Errorf("unknown preset %q", val)
		}
		cfg.FIRE.Preset = config.NormalizePresetName(val)
		cfg.FIRE.ExpectedAnnualReturn, cfg.FIRE.InflationRate, cfg.FIRE.WithdrawalRate = nil, nil, nil
	case settingsFieldCurrentAge:
		n, err := parseAge(val)
		if err != nil {
			return err
		}
		cfg.FIRE.CurrentAge = n
	case settingsFieldTargetAge:
		n, err := parseAge(val)
		if err != nil {
			return err
		}
		cfg.FIRE.TargetRetirementAge = n
	case settingsFieldCurrentSavings:
		v, err := parseAmount(val)
		if err != nil {
			return err
		}
		cfg.FIRE.CurrentSavings = v
	case settingsFieldMonthlyExpenses:
		v, err := parseAmount(val)
		if err != nil {
			return err
		}
		cfg.FIRE.MonthlyExpenses = v
	case settingsFieldLookback:
		n, err := positiveInt(2, 120)
		if err != nil {
			return err
		}
		cfg.CashFlow.LookbackMonths = n
	case settingsFieldHorizon:
		n, err := positiveInt(1, 120)
		if err != nil {
			return err
		}
		cfg.CashFlow.HorizonMonths = n
	case settingsFieldAutoRefresh:
		cfg.TUI.AutoRefresh = val == "true" || val == "1" || val == "yes"
		a.autoRefresh = cfg.TUI.AutoRefresh
	case settingsFieldRefreshInterval:
		n, err := positiveInt(10, 86400)
		if err != nil {
			return err
		}
		cfg.TUI.RefreshIntervalSec = n
		a.refreshInterval = time.Duration(n) * time.Second
	}
	return nil
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)
	innerW := components.CardInnerWidth(cw)

	var formBody strings.Builder
	for i, label := range settingsLabels {
		value := a.settingsValue(cfg, i)
		if value == "" {
			value = "(from ledger)"
		}

		switch {
		case a.settings.editing && i == a.settings.cursor:
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", label)))
			formBody.WriteString(a.settings.input.View())
		case i == a.settings.cursor:
			marker := markerStyle.Render("▸ ")
			lbl := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", label+":"))
			val := selectedStyle.Render(value)
			formBody.WriteString(marker + lbl + val)
			if pad := innerW - lipgloss.Width(marker) - lipgloss.Width(lbl) - lipgloss.Width(val); pad > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		default:
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", label+":")))
			formBody.WriteString(valueStyle.Render(value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Not saved: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}
	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Ledger directory: ") + valueStyle.Render(a.ledgerDir) + "\n")
	infoBody.WriteString(labelStyle.Render("Records loaded:   ") + valueStyle.Render(cli.FormatNumber(int64(a.ledger.Len()))) + "\n")
	infoBody.WriteString(labelStyle.Render("As of:            ") + valueStyle.Render(a.asOf().Format("Jan 2006")) + "\n")
	infoBody.WriteString(labelStyle.Render("Load time:        ") + valueStyle.Render(fmt.Sprintf("%.1fs", a.loadTime.Seconds())) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:      ") + valueStyle.Render(config.ConfigPath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
