package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fcast/internal/config"
	"github.com/theirongolddev/fcast/internal/pipeline"
	"github.com/theirongolddev/fcast/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	records := 0
	if result, err := pipeline.Load(flagLedgerDir, nil); err == nil {
		records = result.Ledger.Len()
	} else {
		log.WithError(err).Debug("ledger not readable yet")
	}

	vals := tui.NewSetupValues(cfg)
	vals.LedgerDir = flagLedgerDir

	if err := tui.NewSetupForm(&vals, records, flagLedgerDir).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	if err := vals.Apply(&cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `fcast` for a summary or `fcast tui` for the dashboard.")
	fmt.Println()
	return nil
}
