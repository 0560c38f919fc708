// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"bimigrate/cli/internal/dsn"
	"bimigrate/cli/internal/export"
	"bimigrate/cli/internal/httperrors"
	"bimigrate/cli/internal/keychain"
	"bimigrate/cli/internal/logging"
	"bimigrate/cli/internal/platform"
)

// publishCmd exports the converted expressions of the selected workbook to
// the staging database. It reads the current results from the backend, so it
// works in a fresh process without a prior watch; publishing is idempotent,
// rows already present are left alone.
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Export converted expressions to the staging database",
	Long: `The publish command fetches the converted expressions of the selected workbook
and inserts them into the staging PostgreSQL database configured via
'bimigrate connect'. Re-publishing never duplicates or overwrites rows.

The DSN is taken from the BIMIGRATE_STAGING_DSN environment variable when set,
otherwise from the OS keychain.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		snap, ok := requireSession(platform.None, "publish")
		if !ok {
			return nil
		}
		wb, ok := requireWorkbook()
		if !ok {
			return nil
		}

		rawDSN := strings.TrimSpace(os.Getenv("BIMIGRATE_STAGING_DSN"))
		if rawDSN == "" {
			if km, err := keychain.GetManager(); err == nil {
				if v, err := km.LoadStagingDSN(); err == nil {
					rawDSN = strings.TrimSpace(v)
				}
			}
		}
		if rawDSN == "" {
			fmt.Println("⚠️  No staging database configured.")
			fmt.Println("   Please run 'bimigrate connect' first.")
			return nil
		}

		normalizedDSN, err := dsn.Parse(rawDSN)
		if err != nil {
			fmt.Println("❌ Invalid staging database connection string.")
			fmt.Println("   Please run 'bimigrate connect' to reconfigure it.")
			return err
		}

		be, err := backendFor(snap)
		if err != nil {
			return err
		}

		items, err := be.FetchConverted(cmd.Context(), wb.ID)
		if err != nil {
			return httperrors.FormatNetworkError(err, "reading converted expressions")
		}
		if len(items) == 0 {
			fmt.Println("Nothing to publish yet. Run 'bimigrate watch' or 'bimigrate convert' first.")
			return nil
		}

		stopSpinner := startInlineSpinner(os.Stdout,
			fmt.Sprintf("Publishing %d expression(s)", len(items)), spinnerFrames, 120*time.Millisecond)

		pub, err := export.Open(cmd.Context(), normalizedDSN)
		if err != nil {
			stopSpinner()
			fmt.Println("❌ Could not reach the staging database.")
			fmt.Println(logging.PresentError("", err))
			// pgx errors embed the DSN; never return them unmasked.
			return errors.New(logging.Mask(err.Error()))
		}
		defer pub.Close()

		if err := pub.EnsureSchema(cmd.Context()); err != nil {
			stopSpinner()
			return err
		}
		inserted, err := pub.Publish(cmd.Context(), string(snap.Platform), wb.ID, items)
		stopSpinner()
		if err != nil {
			return err
		}

		fmt.Printf("✅ Published %d expression(s) for %s (%d new, %d already present).\n",
			len(items), workbookLabel(wb), inserted, int64(len(items))-inserted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}
