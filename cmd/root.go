// Package cmd implements the trimtui CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/financiallyruined/trimtui/internal/api"
	"github.com/financiallyruined/trimtui/internal/config"
	"github.com/financiallyruined/trimtui/internal/tui"
	"github.com/financiallyruined/trimtui/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	flagServer string
	flagQuiet  bool
)

var rootCmd = &cobra.Command{
	Use:   "trimtui",
	Short: "Terminal client for the video trimming server",
	Long:  "Browse server videos, build time segments, and watch trimming jobs from your terminal.",
	RunE:  runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagServer, "server", "s", "", "Server base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// serverURL resolves the server address: flag, then TRIMTUI_SERVER, then
// the config file.
func serverURL(cfg config.Config) string {
	if flagServer != "" {
		return flagServer
	}
	return config.ServerURL(cfg)
}

// newClient builds the API client shared by the non-interactive commands.
func newClient() (*api.Client, error) {
	cfg, _ := config.Load()
	client := api.NewClient(serverURL(cfg))
	if client == nil {
		return nil, fmt.Errorf("no server configured: pass --server or run `trimtui` once to set it up")
	}
	return client, nil
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, _ := config.Load()
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	client := api.NewClient(serverURL(cfg))
	app := tui.NewApp(client, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
