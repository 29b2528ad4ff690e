// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

// lectern publishes and manages blogs built from chat-protocol rooms:
// a blog is a space, each post a child room holding one editable
// message.
package main

import (
	"fmt"
	"os"

	"github.com/lectern-press/lectern/cmd/lectern/cli"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output return an ExitError;
		// an extra "error:" line would be redundant for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := cli.LoadConfig()
	if err != nil {
		return err
	}

	root := &cli.Command{
		Name:    "lectern",
		Summary: "Blog publishing over federated chat rooms",
		Description: `lectern manages blogs whose storage is a chat homeserver: a blog is
a space, each post a child room with a single editable message.`,
		Subcommands: []*cli.Command{
			cli.LoginCommand(config),
			cli.WhoAmICommand(),
			cli.BlogCommand(config),
			cli.PostCommand(config),
		},
	}
	return root.Execute(os.Args[1:])
}
