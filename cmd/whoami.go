package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bimigrate/cli/internal/platform"
	"bimigrate/cli/internal/session"
)

// whoamiCmd shows the current session: platform, principal, and the selection
// chain. Works entirely from local state, no backend round-trip.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session and selection",
	Long: `The whoami command displays the currently signed-in principal, the platform
the session belongs to, and the selected project/workbook/dashboard chain.

If no session exists, it will indicate that you are not signed in.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		snap, ok := requireSession(platform.None, "whoami")
		if !ok {
			return nil
		}

		fmt.Printf("👤 Signed in as %s (%s)\n", snap.PrincipalID, snap.Platform)

		st := session.Default()
		printSelection := func(label string, level session.Level) {
			if e := st.GetSelection(level); e != nil {
				name := e.Name
				if name == "" {
					name = e.ID
				}
				fmt.Printf("   %-10s %s (%s)\n", label+":", name, e.ID)
			}
		}
		printSelection("project", session.LevelProject)
		printSelection("workbook", session.LevelWorkbook)
		printSelection("dashboard", session.LevelDashboard)

		warnIfDegraded()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
