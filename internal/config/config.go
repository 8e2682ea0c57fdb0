package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/fcast/internal/forecast"
	"github.com/theirongolddev/fcast/internal/model"
)

// Config holds all fcast configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Debt       DebtConfig       `toml:"debt"`
	FIRE       FIREConfig       `toml:"fire"`
	CashFlow   CashFlowConfig   `toml:"cashflow"`
	Appearance AppearanceConfig `toml:"appearance"`
	TUI        TUIConfig        `toml:"tui"`
	Daemon     DaemonConfig     `toml:"daemon"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	LedgerDir string `toml:"ledger_dir,omitempty"`
}

// DebtConfig holds debt payoff defaults.
type DebtConfig struct {
	ExtraMonthlyPayment float64 `toml:"extra_monthly_payment"`
	Strategy            string  `toml:"strategy"` // avalanche, snowball or compare
}

// FIREConfig holds the retirement profile. Rate fields left unset fall back
// to the named assumption preset. A zero MonthlyExpenses or unset
// MonthlySavings is derived from the ledger.
type FIREConfig struct {
	CurrentAge          int      `toml:"current_age"`
	TargetRetirementAge int      `toml:"target_retirement_age"`
	CurrentSavings      float64  `toml:"current_savings"`
	MonthlyExpenses     float64  `toml:"monthly_expenses,omitempty"`
	MonthlySavings      *float64 `toml:"monthly_savings,omitempty"`

	Preset               string   `toml:"preset"`
	ExpectedAnnualReturn *float64 `toml:"expected_annual_return,omitempty"`
	InflationRate        *float64 `toml:"inflation_rate,omitempty"`
	WithdrawalRate       *float64 `toml:"withdrawal_rate,omitempty"`
}

// CashFlowConfig holds forecaster windows and heuristic coefficients.
type CashFlowConfig struct {
	LookbackMonths int                 `toml:"lookback_months"`
	HorizonMonths  int                 `toml:"horizon_months"`
	Heuristics     forecast.Heuristics `toml:"heuristics"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// TUIConfig holds dashboard refresh settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// DaemonConfig holds background service settings.
type DaemonConfig struct {
	Addr      string `toml:"addr"`
	Schedule  string `toml:"schedule"` // robfig/cron spec, e.g. "@every 15m"
	RedisAddr string `toml:"redis_addr,omitempty"`
	LogLevel  string `toml:"log_level"`

	// Token bucket for the simulate endpoints, per client IP.
	RateLimitBurst  int `toml:"rate_limit_burst"`
	RateLimitPerMin int `toml:"rate_limit_per_min"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Debt: DebtConfig{
			Strategy: "compare",
		},
		FIRE: FIREConfig{
			CurrentAge:          30,
			TargetRetirementAge: 65,
			Preset:              "moderate",
		},
		CashFlow: CashFlowConfig{
			LookbackMonths: forecast.DefaultLookbackMonths,
			HorizonMonths:  forecast.DefaultHorizonMonths,
			Heuristics:     forecast.DefaultHeuristics(),
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 60,
		},
		Daemon: DaemonConfig{
			Addr:            "127.0.0.1:8787",
			Schedule:        "@every 15m",
			LogLevel:        "info",
			RateLimitBurst:  20,
			RateLimitPerMin: 60,
		},
	}
}

// Inputs resolves the profile against its preset into calculator inputs.
// An unknown preset falls back to "moderate".
func (f FIREConfig) Inputs() model.FIREInputs {
	a, ok := LookupPreset(f.Preset)
	if !ok {
		a, _ = LookupPreset(DefaultPreset)
	}
	in := model.FIREInputs{
		CurrentAge:           f.CurrentAge,
		TargetRetirementAge:  f.TargetRetirementAge,
		MonthlyExpenses:      f.MonthlyExpenses,
		CurrentSavings:       f.CurrentSavings,
		ExpectedAnnualReturn: a.ExpectedAnnualReturn,
		InflationRate:        a.InflationRate,
		WithdrawalRate:       a.WithdrawalRate,
	}
	if f.ExpectedAnnualReturn != nil {
		in.ExpectedAnnualReturn = *f.ExpectedAnnualReturn
	}
	if f.InflationRate != nil {
		in.InflationRate = *f.InflationRate
	}
	if f.WithdrawalRate != nil {
		in.WithdrawalRate = *f.WithdrawalRate
	}
	return in
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fcast")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fcast")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DefaultLedgerDir returns the XDG data directory used when no ledger
// directory is configured.
func DefaultLedgerDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fcast", "ledger")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "fcast", "ledger")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetLedgerDir returns the ledger directory from env var, config or the
// default, in that order.
func GetLedgerDir(cfg Config) string {
	if dir := os.Getenv("FCAST_LEDGER_DIR"); dir != "" {
		return dir
	}
	if cfg.General.LedgerDir != "" {
		return cfg.General.LedgerDir
	}
	return DefaultLedgerDir()
}

// GetRedisAddr returns the daemon's Redis address from env var or config.
// Empty means the in-memory result cache.
func GetRedisAddr(cfg Config) string {
	if addr := os.Getenv("FCAST_REDIS_ADDR"); addr != "" {
		return addr
	}
	return cfg.Daemon.RedisAddr
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
