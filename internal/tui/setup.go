package tui

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/financiallyruined/trimtui/internal/api"
	"github.com/financiallyruined/trimtui/internal/config"
	"github.com/financiallyruined/trimtui/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// setupValues backs the first-run setup form.
type setupValues struct {
	serverURL string
	theme     string
}

func newSetupForm(vals *setupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOpts = append(themeOpts, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to trimtui").
				Description("A couple of settings before we start."),

			huh.NewInput().
				Title("Server address").
				Description("The trimming server, e.g. http://localhost:5000").
				Placeholder("http://localhost:5000").
				Value(&vals.serverURL).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("server address is required")
					}
					u, err := url.Parse(s)
					if err != nil || u.Scheme == "" || u.Host == "" {
						return fmt.Errorf("enter a full URL including http:// or https://")
					}
					return nil
				}),

			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOpts...).
				Value(&vals.theme),
		),
	)
}

// updateSetupForm advances the first-run wizard. On completion the config is
// saved, the client is built, and the trim tab loads its first listing.
func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateAborted {
		return a, tea.Quit
	}
	if a.setupForm.State != huh.StateCompleted {
		return a, cmd
	}

	cfg := config.DefaultConfig()
	cfg.Server.BaseURL = strings.TrimSpace(a.setupVals.serverURL)
	cfg.Appearance.Theme = a.setupVals.theme
	if err := config.Save(cfg); err != nil {
		a.errMsg = fmt.Sprintf("Could not save config: %s", err)
	}

	theme.SetActive(cfg.Appearance.Theme)
	a.client = api.NewClient(config.ServerURL(cfg))
	a.histPath = config.HistoryPath(cfg)
	a.needSetup = false
	a.setupForm = nil

	if a.client == nil {
		a.errMsg = "Invalid server address in config."
		return a, nil
	}

	a.trim.loading = true
	return a, tea.Batch(a.trim.spinner.Tick, a.browseCmd(a.trim.startPath))
}
