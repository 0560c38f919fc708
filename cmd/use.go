// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bimigrate/cli/internal/platform"
	"bimigrate/cli/internal/session"
)

// useCmd records a selection. Selections form a chain: picking a project
// clears the workbook and dashboard below it, picking a workbook clears the
// dashboard. The parent ids are attached so later requests can re-scope.
var useCmd = &cobra.Command{
	Use:   "use <project|workbook|dashboard> <id> [name]",
	Short: "Select a project, workbook, or dashboard to work in",
	Long: `The use command records which project, workbook, or dashboard subsequent
commands operate on. Selecting a level clears everything deeper: a new project
selection drops the workbook and dashboard, a new workbook drops the dashboard.

Selections persist across runs and are removed on logout.`,
	Args: cobra.MinimumNArgs(2),

	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := requireSession(platform.None, "use"); !ok {
			return nil
		}

		level := session.Level(strings.ToLower(args[0]))
		if !level.Valid() {
			return fmt.Errorf("unknown selection level %q (use project, workbook, or dashboard)", args[0])
		}

		st := session.Default()
		e := session.Entity{
			ID:   args[1],
			Name: strings.Join(args[2:], " "),
		}

		// Carry the parent chain so deeper lookups stay scoped.
		switch level {
		case session.LevelWorkbook:
			if proj := st.GetSelection(session.LevelProject); proj != nil {
				e.ProjectID = proj.ID
			}
		case session.LevelDashboard:
			if wb := st.GetSelection(session.LevelWorkbook); wb != nil {
				e.WorkbookID = wb.ID
				e.ProjectID = wb.ProjectID
			}
		}

		if err := st.SetSelection(level, e); err != nil {
			warnIfDegraded()
		}

		label := e.Name
		if label == "" {
			label = e.ID
		}
		fmt.Printf("✅ Now working in %s %s\n", level, label)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
