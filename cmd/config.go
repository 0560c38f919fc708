// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bimigrate/cli/internal/config"
)

var (
	cfgTableauURL   string
	cfgMstrURL      string
	cfgPollInterval int
	cfgLogLevel     string
)

// configCmd shows the effective settings and persists any that are passed as
// flags. No secrets live here; tokens and DSNs stay in the OS keychain.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update CLI settings",
	Long: `The config command prints the effective CLI settings. Pass flags to change
them; changed settings are written to the config file in the XDG config dir.

Environment variables BIMIGRATE_TABLEAU_URL and BIMIGRATE_MSTR_URL still
override the file at load time.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _ := config.Load()

		changed := false
		if cmd.Flags().Changed("tableau-url") {
			cfg.TableauURL = cfgTableauURL
			changed = true
		}
		if cmd.Flags().Changed("mstr-url") {
			cfg.MicroStrategyURL = cfgMstrURL
			changed = true
		}
		if cmd.Flags().Changed("poll-interval") {
			if cfgPollInterval < 1 {
				return fmt.Errorf("poll-interval must be at least 1 second, got %d", cfgPollInterval)
			}
			cfg.PollIntervalSeconds = cfgPollInterval
			changed = true
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = cfgLogLevel
			changed = true
		}

		if changed {
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Println("✅ Configuration saved.")
		}

		fmt.Printf("tableau-url:   %s\n", cfg.TableauURL)
		fmt.Printf("mstr-url:      %s\n", cfg.MicroStrategyURL)
		fmt.Printf("poll-interval: %ds\n", cfg.PollIntervalSeconds)
		fmt.Printf("log-level:     %s\n", cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVar(&cfgTableauURL, "tableau-url", "", "Base address of the Tableau REST backend")
	configCmd.Flags().StringVar(&cfgMstrURL, "mstr-url", "", "Base address of the MicroStrategy REST backend")
	configCmd.Flags().IntVar(&cfgPollInterval, "poll-interval", 0, "Conversion poll cadence in seconds")
	configCmd.Flags().StringVar(&cfgLogLevel, "log-level", "", "Log level for the diagnostic log file")
}
