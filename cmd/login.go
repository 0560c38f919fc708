// Copyright (c) 2025 Bimigrate
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"bimigrate/cli/internal/backend"
	"bimigrate/cli/internal/config"
	bmerrors "bimigrate/cli/internal/errors"
	"bimigrate/cli/internal/httperrors"
	"bimigrate/cli/internal/platform"
	"bimigrate/cli/internal/session"
	"bimigrate/cli/internal/terminal"
)

var (
	loginPlatform string
)

// loginCmd authenticates against one of the two source BI platforms and
// records the session. Logging in replaces any existing session wholesale,
// including the platform identity and every selection.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in to a source BI platform",
	Long: `The login command signs in to the configured Tableau or MicroStrategy backend
with username and password and stores the resulting session. The auth token is
kept in the OS keychain; the rest of the session lives in the XDG state dir.

Signing in to a different platform replaces the previous session entirely:
platform-scoped commands only run against the platform you are signed in to.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		p := platform.Parse(loginPlatform)
		if !p.Valid() {
			return fmt.Errorf("unknown platform %q (use tableau or microstrategy)", loginPlatform)
		}

		cfg, _ := config.Load()
		base, err := platform.ResolveBaseAddress(p, cfg)
		if err != nil {
			return err
		}

		if snap := session.Default().GetSession(); snap != nil && snap.Platform == p {
			fmt.Printf("Already signed in to %s as %s\n", p, snap.PrincipalID)
			return nil
		}

		username, password, err := promptCredentials()
		if err != nil {
			return err
		}

		stopSpinner := startInlineSpinner(os.Stdout, "Signing in to "+string(p), spinnerFrames, 120*time.Millisecond)

		be := backend.New(base, p)
		principalID, token, err := be.SignIn(cmd.Context(), username, password)
		stopSpinner()
		if err != nil {
			if bmerrors.HasKind(err, bmerrors.SignInFailed) {
				fmt.Println("❌ Sign-in failed. Please check your username and password.")
				return err
			}
			return httperrors.FormatNetworkError(err, "signing in to "+string(p))
		}

		if err := session.Default().SetSession(p, principalID, token); err != nil {
			// Degraded storage keeps the session in memory for this run.
			warnIfDegraded()
		}

		fmt.Printf("✅ Signed in to %s as %s\n", p, principalID)
		fmt.Println("   Run 'bimigrate projects' to start browsing.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginPlatform, "platform", "p", "tableau", "Source platform: tableau or microstrategy (alias mstr)")
}

// promptCredentials reads username and password interactively. The password
// is read without echo; both prompt lines are wiped from the scrollback.
func promptCredentials() (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	userPrompt := "Username: "
	fmt.Print(userPrompt)
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		return "", "", errors.New("username is required")
	}

	fmt.Print("Password: ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	if len(secret) == 0 {
		return "", "", errors.New("password is required")
	}

	terminal.ClearPrompt(len(userPrompt) + len(username))
	return username, string(secret), nil
}
