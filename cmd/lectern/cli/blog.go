// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
)

// BlogCommand returns the "blog" command group: read operations on a
// blog space.
func BlogCommand(config *Config) *Command {
	return &Command{
		Name:    "blog",
		Summary: "Inspect a blog",
		Subcommands: []*Command{
			blogShowCommand(config),
			blogPostsCommand(config),
		},
	}
}

func blogShowCommand(config *Config) *Command {
	var blogFlag string
	var asJSON bool

	return &Command{
		Name:    "show",
		Summary: "Show a blog's title and description",
		Usage:   "lectern blog show [flags]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
			flagSet.StringVar(&blogFlag, "blog", "", "blog room ID (default: config file)")
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			service, session, err := connectService(config)
			if err != nil {
				return err
			}
			defer session.Close()

			roomID, err := blogRoom(config, blogFlag)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			result, err := service.GetBlog(ctx, roomID)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(result)
			}
			fmt.Printf("Blog:        %s\n", result.RoomID)
			fmt.Printf("Title:       %s\n", result.Title)
			if result.Description != "" {
				fmt.Printf("Description: %s\n", result.Description)
			}
			return nil
		},
	}
}

func blogPostsCommand(config *Config) *Command {
	var blogFlag string
	var asJSON bool
	var full bool

	return &Command{
		Name:    "posts",
		Summary: "List a blog's posts",
		Usage:   "lectern blog posts [flags]",
		Examples: []Example{
			{Description: "List post metadata", Command: "lectern blog posts"},
			{Description: "Include post bodies as JSON", Command: "lectern blog posts --full --json"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("posts", pflag.ContinueOnError)
			flagSet.StringVar(&blogFlag, "blog", "", "blog room ID (default: config file)")
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			flagSet.BoolVar(&full, "full", false, "fetch post content, not just metadata")
			return flagSet
		},
		Run: func(args []string) error {
			service, session, err := connectService(config)
			if err != nil {
				return err
			}
			defer session.Close()

			roomID, err := blogRoom(config, blogFlag)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			if full {
				posts, err := service.GetFullPosts(ctx, roomID)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(posts)
				}
				for i, post := range posts {
					if i > 0 {
						fmt.Println()
					}
					printPost(&post)
				}
				return nil
			}

			posts, err := service.GetPosts(ctx, roomID)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(posts)
			}
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(tw, "ROOM\tSLUG\tTITLE")
			for _, post := range posts {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", post.RoomID, post.Slug, post.Title)
			}
			return tw.Flush()
		},
	}
}
