// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"

	"bimigrate/cli/internal/httperrors"
	"bimigrate/cli/internal/platform"
	"bimigrate/cli/internal/resolver"
	"bimigrate/cli/internal/session"
)

// workbooksCmd lists workbooks, filtered to the selected project when one is
// set. Like projects, this is a primary listing with a stable endpoint.
var workbooksCmd = &cobra.Command{
	Use:   "workbooks",
	Short: "List workbooks, scoped to the selected project",

	RunE: func(cmd *cobra.Command, args []string) error {
		snap, ok := requireSession(platform.None, "workbooks")
		if !ok {
			return nil
		}

		be, err := backendFor(snap)
		if err != nil {
			return err
		}

		params := resolver.Params{}
		title := "Workbooks"
		if proj := session.Default().GetSelection(session.LevelProject); proj != nil {
			params["project"] = proj.ID
			if proj.Name != "" {
				title = "Workbooks in " + proj.Name
			}
		}

		items, err := fetcherFor(snap, be).Fetch(cmd.Context(), resolver.KindWorkbooks, params)
		if err != nil {
			return httperrors.FormatNetworkError(err, "listing workbooks")
		}

		renderResources(title, items)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workbooksCmd)
}
