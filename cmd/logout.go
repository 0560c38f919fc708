// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"bimigrate/cli/internal/session"
)

// logoutCmd clears the local session. Logout is always allowed, even with no
// session: clearing nothing succeeds. The backend sign-out is best-effort;
// being offline must never keep a user signed in locally.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the saved session",
	Long: `The logout command clears all session state from the local system: the auth
token in the OS keychain, the platform identity, and every selection. It also
attempts to notify the backend to invalidate the session (best-effort).

Running logout while already signed out is a no-op and succeeds.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		// Best-effort remote sign-out before the token is gone.
		if snap := session.Default().GetSession(); snap != nil {
			if be, err := backendFor(snap); err == nil {
				_ = be.SignOut(cmd.Context())
			}
		}

		if err := session.Default().ClearSession(); err != nil {
			fmt.Println("⚠️  Could not reach session storage; the in-memory session was cleared.")
			return nil
		}

		fmt.Println("✅ Signed out. All session state has been removed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
