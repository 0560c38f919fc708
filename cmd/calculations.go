// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"

	"bimigrate/cli/internal/platform"
	"bimigrate/cli/internal/resolver"
)

// calculationsCmd lists the calculations of the selected workbook, including
// their source expressions. These are the items conversion operates on.
var calculationsCmd = &cobra.Command{
	Use:     "calculations",
	Aliases: []string{"calcs"},
	Short:   "List calculations of the selected workbook",

	RunE: func(cmd *cobra.Command, args []string) error {
		snap, ok := requireSession(platform.None, "calculations")
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

		items, err := fetcherFor(snap, be).Fetch(cmd.Context(), resolver.KindWorkbookCalculations,
			resolver.Params{"workbook": wb.ID})
		if err != nil {
			return err
		}

		renderResources("Calculations of "+workbookLabel(wb), items)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calculationsCmd)
}
