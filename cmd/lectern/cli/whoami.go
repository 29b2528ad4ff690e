// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/lectern-press/lectern/messaging"
)

// WhoAmICommand returns the "whoami" command: validate the saved
// session against the homeserver and print the acting user ID.
func WhoAmICommand() *Command {
	var check bool

	return &Command{
		Name:    "whoami",
		Summary: "Show the logged-in user",
		Usage:   "lectern whoami [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("whoami", pflag.ContinueOnError)
			flagSet.BoolVar(&check, "check", false, "also probe the homeserver's supported protocol versions")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument: %s", args[0])
			}

			stored, err := LoadSession()
			if err != nil {
				return err
			}
			session, err := Connect()
			if err != nil {
				return err
			}
			defer session.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			if check {
				// Unauthenticated probe first: separates "server down"
				// from "token rejected" in the failure output.
				client, err := messaging.NewClient(messaging.ClientConfig{
					HomeserverURL: stored.Homeserver,
				})
				if err != nil {
					return err
				}
				versions, err := client.ServerVersions(ctx)
				if err != nil {
					return fmt.Errorf("homeserver unreachable: %w", err)
				}
				fmt.Printf("Homeserver: %s (versions: %s)\n", stored.Homeserver, strings.Join(versions.Versions, ", "))
			}

			userID, err := session.WhoAmI(ctx)
			if err != nil {
				return fmt.Errorf("session check failed: %w", err)
			}
			fmt.Println(userID)
			return nil
		},
	}
}
