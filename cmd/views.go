// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"

	"bimigrate/cli/internal/platform"
	"bimigrate/cli/internal/resolver"
)

// viewsCmd lists the views of the selected workbook. Views are a probed
// lookup: the physical route differs between deployments, so the resolver
// walks its candidate list and an exhausted probe renders as an empty table.
var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List views of the selected workbook",

	RunE: func(cmd *cobra.Command, args []string) error {
		snap, ok := requireSession(platform.None, "views")
		if !ok {
			return nil
		}
		wb, ok := requireWorkbook()
		if !ok {
			return nil
		}

		be, err := backendFor(snap)
		if err != nil {
			return err
		}

		items, err := fetcherFor(snap, be).Fetch(cmd.Context(), resolver.KindWorkbookViews,
			resolver.Params{"workbook": wb.ID})
		if err != nil {
			return err
		}

		renderResources("Views of "+workbookLabel(wb), items)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewsCmd)
}
