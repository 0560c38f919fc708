// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"bimigrate/cli/internal/conversion"
	bmerrors "bimigrate/cli/internal/errors"
	"bimigrate/cli/internal/httperrors"
)

var (
	watchMaxTicks int
	watchTimeout  time.Duration
	watchPlatform string
)

// watchCmd kicks off a server-side background conversion job for the selected
// workbook and polls for results at a fixed cadence, streaming each newly
// converted expression as it lands. The server offers no completion signal:
// the loop runs until Ctrl-C, the timeout, or the tick cap.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run a background conversion job and stream results",
	Long: `The watch command starts a background conversion job on the server for every
calculation of the selected workbook, then polls the results endpoint every
few seconds and prints newly converted expressions as they appear.

There is no server-side "done" signal. The loop ends on Ctrl-C, when the
--timeout elapses, or after --max-ticks poll rounds. Results already fetched
are kept; re-running watch only adds what is new.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		required, err := requiredPlatform(watchPlatform)
		if err != nil {
			return err
		}
		snap, ok := requireSession(required, "watch")
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
		o := newOrchestrator(be)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if watchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, watchTimeout)
			defer cancel()
		}

		fmt.Printf("Starting conversion job for %s...\n", workbookLabel(wb))
		if err := o.StartJob(ctx, wb.ID); err != nil {
			if bmerrors.HasKind(err, bmerrors.KickoffFailed) {
				fmt.Println("❌ Could not start the conversion job. Nothing is running.")
				return err
			}
			return httperrors.FormatNetworkError(err, "starting the conversion job")
		}

		cursor.Hide()
		defer cursor.Show()

		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("Polling for converted expressions (Ctrl-C to stop)"))
		shown := 0
		final, err := o.Run(ctx, wb.ID, watchMaxTicks, func(added []conversion.Converted) {
			for _, it := range added {
				shown++
				name := it.Name
				if name == "" {
					name = it.SourceID
				}
				pterm.Printf("  ✓ %s\n", pterm.NewStyle(pterm.FgCyan).Sprint(name))
				pterm.Printf("    %s\n", it.TargetExpression)
			}
		})
		if err != nil {
			return err
		}

		fmt.Printf("\nDone. %d expression(s) converted this session, %d total in cache.\n", shown, len(final))
		if len(final) > 0 {
			fmt.Println("Run 'bimigrate publish' to export them to the staging database.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().IntVar(&watchMaxTicks, "max-ticks", 0, "Stop after this many poll rounds (0 = no cap)")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 10*time.Minute, "Give up after this long (0 = wait for Ctrl-C)")
	watchCmd.Flags().StringVar(&watchPlatform, "platform", "",
		"Require the session to be signed in to this platform (tableau or microstrategy)")
}
