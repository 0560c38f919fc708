// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"bimigrate/cli/internal/conversion"
	"bimigrate/cli/internal/resolver"
)

var convertPlatform string

// convertCmd converts an explicit set of calculations synchronously: one
// batch request, results rendered immediately. Without arguments every
// calculation of the selected workbook is converted. Already-converted
// items are served from the cache and not re-requested.
var convertCmd = &cobra.Command{
	Use:   "convert [calculation-id...]",
	Short: "Convert calculations of the selected workbook to DAX",
	Long: `The convert command converts calculation expressions to DAX in one
synchronous batch. Pass calculation ids to convert a specific selection, or no
arguments to convert every calculation of the selected workbook.

For large workbooks prefer 'bimigrate watch', which kicks off a background
conversion job on the server and streams results as they complete.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		required, err := requiredPlatform(convertPlatform)
		if err != nil {
			return err
		}
		snap, ok := requireSession(required, "convert")
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

		ids := args
		if len(ids) == 0 {
			calcs, err := fetcherFor(snap, be).Fetch(cmd.Context(), resolver.KindWorkbookCalculations,
				resolver.Params{"workbook": wb.ID})
			if err != nil {
				return err
			}
			if len(calcs) == 0 {
				fmt.Println("No calculations found in " + workbookLabel(wb))
				return nil
			}
			for _, c := range calcs {
				ids = append(ids, c.ID)
			}
		}

		o := newOrchestrator(be)
		stopSpinner := startInlineSpinner(os.Stdout,
			fmt.Sprintf("Converting %d calculation(s)", len(ids)), spinnerFrames, 120*time.Millisecond)
		result, err := o.ConvertNow(cmd.Context(), wb.ID, ids)
		stopSpinner()
		if err != nil {
			return err
		}

		renderConverted("Converted expressions for "+workbookLabel(wb), result)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(&convertPlatform, "platform", "",
		"Require the session to be signed in to this platform (tableau or microstrategy)")
}

// renderConverted prints conversion results as a table.
func renderConverted(title string, items []conversion.Converted) {
	pterm.Println(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint(title))
	if len(items) == 0 {
		pterm.Println("  (nothing converted yet)")
		return
	}
	data := pterm.TableData{{"ID", "NAME", "DAX"}}
	for _, it := range items {
		data = append(data, []string{it.SourceID, it.Name, it.TargetExpression})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
