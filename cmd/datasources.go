// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bimigrate/cli/internal/httperrors"
	"bimigrate/cli/internal/platform"
	"bimigrate/cli/internal/resolver"
	"bimigrate/cli/internal/session"
)

// datasourcesCmd lists data sources. With a workbook selected it probes the
// workbook-scoped lookup; otherwise it falls back to the project-level
// listing, which is a primary endpoint and requires a project selection.
var datasourcesCmd = &cobra.Command{
	Use:     "datasources",
	Aliases: []string{"ds"},
	Short:   "List data sources of the selected workbook or project",

	RunE: func(cmd *cobra.Command, args []string) error {
		snap, ok := requireSession(platform.None, "datasources")
		if !ok {
			return nil
		}

		be, err := backendFor(snap)
		if err != nil {
			return err
		}
		fetcher := fetcherFor(snap, be)

		st := session.Default()
		if wb := st.GetSelection(session.LevelWorkbook); wb != nil {
			items, err := fetcher.Fetch(cmd.Context(), resolver.KindWorkbookDatasources,
				resolver.Params{"workbook": wb.ID})
			if err != nil {
				return err
			}
			renderResources("Data sources of "+workbookLabel(wb), items)
			return nil
		}

		proj := st.GetSelection(session.LevelProject)
		if proj == nil {
			fmt.Println("⚠️  Select a project or workbook first: bimigrate use project <id>")
			return nil
		}
		items, err := fetcher.Fetch(cmd.Context(), resolver.KindProjectDatasources,
			resolver.Params{"project": proj.ID})
		if err != nil {
			return httperrors.FormatNetworkError(err, "listing data sources")
		}
		title := "Data sources"
		if proj.Name != "" {
			title = "Data sources of " + proj.Name
		}
		renderResources(title, items)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasourcesCmd)
}
