// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/lectern-press/lectern/lib/secret"
	"github.com/lectern-press/lectern/messaging"
)

// LoginCommand returns the "login" command: authenticate against the
// homeserver, verify the session via whoami, and save it to the
// session file for later commands.
func LoginCommand(config *Config) *Command {
	var homeserver string
	var passwordFile string

	return &Command{
		Name:    "login",
		Summary: "Authenticate and save a session",
		Description: `Log in to a homeserver and save the session locally.

After login, commands like "lectern blog posts" and "lectern post add"
use the saved session transparently. The session file is stored at
~/.config/lectern/session.json (or $LECTERN_SESSION_FILE) with mode
0600, since it contains an access token.

The password is prompted interactively unless --password-file names a
file to read it from ("-" reads from stdin).`,
		Usage: "lectern login <username> [flags]",
		Examples: []Example{
			{Description: "Log in interactively", Command: "lectern login ben"},
			{Description: "Log in against an explicit homeserver", Command: "lectern login ben --homeserver https://matrix.example.com"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flagSet.StringVar(&homeserver, "homeserver", defaultHomeserver(config), "homeserver URL")
			flagSet.StringVar(&passwordFile, "password-file", "", "path to a file containing the password, or - for stdin (default: prompt)")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("username is required\n\nUsage: lectern login <username> [flags]")
			}
			if len(args) > 1 {
				return fmt.Errorf("unexpected argument: %s", args[1])
			}
			username := args[0]

			password, err := readPassword(passwordFile)
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			defer password.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			client, err := messaging.NewClient(messaging.ClientConfig{
				HomeserverURL: homeserver,
				Logger:        NewLogger(false),
			})
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}

			session, err := client.Login(ctx, username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			defer session.Close()

			// Verify the token works before persisting it.
			userID, err := session.WhoAmI(ctx)
			if err != nil {
				return fmt.Errorf("session verification failed: %w", err)
			}

			stored := &StoredSession{
				UserID:      userID.String(),
				AccessToken: session.AccessToken(),
				Homeserver:  homeserver,
			}
			if err := SaveSession(stored); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Logged in as %s\n", userID)
			fmt.Fprintf(os.Stderr, "Session saved to %s\n", SessionFilePath())
			return nil
		},
	}
}

func defaultHomeserver(config *Config) string {
	if config.Homeserver != "" {
		return config.Homeserver
	}
	return "http://localhost:8008"
}

// readPassword reads the login password. An empty path prompts on the
// terminal with echo disabled; "-" or a file path reads through
// secret.ReadFromPath.
func readPassword(path string) (*secret.Buffer, error) {
	if path != "" {
		return secret.ReadFromPath(path)
	}

	stdin := int(os.Stdin.Fd())
	if !term.IsTerminal(stdin) {
		return nil, fmt.Errorf("no terminal for interactive password prompt (use --password-file)")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(stdin)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return secret.NewFromBytes(raw)
}
