package cmd

import (
	"fmt"

	"github.com/financiallyruined/trimtui/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Base URL: %s\n", serverURL(cfg))
	fmt.Println()

	fmt.Println("  [General]")
	if cfg.General.StartPath != "" {
		fmt.Printf("    Start path:   %s\n", cfg.General.StartPath)
	} else {
		fmt.Println("    Start path:   (server root)")
	}
	fmt.Printf("    History file: %s\n", config.HistoryPath(cfg))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  Run `trimtui` and delete the config file to re-run setup.")
	return nil
}
