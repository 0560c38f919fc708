// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Bimigrate CLI.
// It implements subcommands for authentication, resource browsing, expression
// conversion and staging-database publishing using the Cobra CLI framework.
// The package handles command parsing, execution, and provides a rich terminal
// UI with spinners and progress indicators.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bimigrate/cli/internal/backend"
	"bimigrate/cli/internal/config"
	"bimigrate/cli/internal/platform"
	"bimigrate/cli/internal/session"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "bimigrate",
	Short:         "Bimigrate CLI for BI content migration to Power BI",
	Long:          `Bimigrate is a command-line migration assistant that browses Tableau or MicroStrategy content and converts calculation expressions to DAX for Power BI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("bimigrate %s\n", Version)

			// When a session is active, also report the backend's version.
			if snap := session.Default().GetSession(); snap != nil && snap.Platform.Valid() {
				cfg, _ := config.Load()
				base, err := platform.ResolveBaseAddress(snap.Platform, cfg)
				if err == nil {
					be := backend.New(base, snap.Platform)
					be.SetToken(snap.AuthToken)
					if v, err := be.GetVersion(cmd.Context()); err == nil && v != "" {
						fmt.Printf("%s backend %s\n", snap.Platform, v)
					}
				}
			}
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and backend version information")
}
