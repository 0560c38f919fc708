// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; secrets go to OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"bimigrate/cli/internal/xdg"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string `json:"log_level"`
	// TableauURL is the base address of the Tableau REST backend.
	TableauURL string `json:"tableau_url"`
	// MicroStrategyURL is the base address of the MicroStrategy REST backend.
	MicroStrategyURL string `json:"microstrategy_url"`
	// PollIntervalSeconds is the cadence of the conversion poll loop.
	PollIntervalSeconds int `json:"poll_interval_seconds"`
}

const (
	defaultTableauURL       = "https://tableau.internal"
	defaultMicroStrategyURL = "https://mstr.internal"
	defaultPollInterval     = 2
)

func init() {
	// Best-effort: a .env in the working directory overrides nothing that is
	// already exported in the environment.
	_ = godotenv.Load()
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults. Environment
// variables BIMIGRATE_TABLEAU_URL and BIMIGRATE_MSTR_URL override the file.
func Load() (Config, error) {
	c := defaults()
	p, err := path()
	if err != nil {
		return applyEnv(c), err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(c), nil
		}
		return applyEnv(c), err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return applyEnv(defaults()), err
	}
	if c.PollIntervalSeconds <= 0 {
		c.PollIntervalSeconds = defaultPollInterval
	}
	return applyEnv(c), nil
}

// Save writes configuration to the config file with private permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o600)
}

func defaults() Config {
	return Config{
		LogLevel:            "info",
		TableauURL:          defaultTableauURL,
		MicroStrategyURL:    defaultMicroStrategyURL,
		PollIntervalSeconds: defaultPollInterval,
	}
}

func applyEnv(c Config) Config {
	if v := os.Getenv("BIMIGRATE_TABLEAU_URL"); v != "" {
		c.TableauURL = v
	}
	if v := os.Getenv("BIMIGRATE_MSTR_URL"); v != "" {
		c.MicroStrategyURL = v
	}
	return c
}
