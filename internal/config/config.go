// Package config loads and saves trimtui configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all trimtui configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// ServerConfig holds trimmer server connection settings.
type ServerConfig struct {
	BaseURL string `toml:"base_url"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	StartPath   string `toml:"start_path,omitempty"`
	HistoryPath string `toml:"history_path,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:5000",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "trimtui")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "trimtui")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// HistoryPath returns the path to the local job history database,
// honoring the configured override.
func HistoryPath(cfg Config) string {
	if cfg.General.HistoryPath != "" {
		return cfg.General.HistoryPath
	}
	return filepath.Join(ConfigDir(), "history.db")
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

// ServerURL returns the base URL from env var or config, in that order.
func ServerURL(cfg Config) string {
	if url := os.Getenv("TRIMTUI_SERVER"); url != "" {
		return url
	}
	return cfg.Server.BaseURL
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
