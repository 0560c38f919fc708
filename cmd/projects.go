// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"

	"bimigrate/cli/internal/httperrors"
	"bimigrate/cli/internal/platform"
	"bimigrate/cli/internal/resolver"
)

// projectsCmd lists the projects visible to the signed-in principal.
// Projects are a primary listing: the endpoint is stable and failures
// surface as errors instead of an empty table.
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects on the active platform",

	RunE: func(cmd *cobra.Command, args []string) error {
		snap, ok := requireSession(platform.None, "projects")
		if !ok {
			return nil
		}

		be, err := backendFor(snap)
		if err != nil {
			return err
		}

		items, err := fetcherFor(snap, be).Fetch(cmd.Context(), resolver.KindProjects, nil)
		if err != nil {
			return httperrors.FormatNetworkError(err, "listing projects")
		}

		renderResources("Projects", items)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}
