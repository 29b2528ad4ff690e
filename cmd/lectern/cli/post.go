// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/lectern-press/lectern/blog"
)

// PostCommand returns the "post" command group: the post lifecycle
// from publish to delete.
func PostCommand(config *Config) *Command {
	return &Command{
		Name:    "post",
		Summary: "Publish, edit, and delete posts",
		Subcommands: []*Command{
			postShowCommand(config),
			postAddCommand(config),
			postEditCommand(config),
			postDeleteCommand(config),
		},
	}
}

func printPost(post *blog.Post) {
	fmt.Printf("Post:    %s\n", post.RoomID)
	fmt.Printf("Title:   %s\n", post.Title)
	if post.Slug != "" {
		fmt.Printf("Slug:    %s\n", post.Slug)
	}
	if post.Summary != "" {
		fmt.Printf("Summary: %s\n", post.Summary)
	}
	if post.CreatedMS != 0 {
		fmt.Printf("Created: %s\n", formatMS(post.CreatedMS))
	}
	if post.EditedMS != 0 {
		fmt.Printf("Edited:  %s\n", formatMS(post.EditedMS))
	}
	fmt.Println()
	fmt.Println(post.Text)
}

func formatMS(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

func postShowCommand(config *Config) *Command {
	var asJSON bool

	return &Command{
		Name:    "show",
		Summary: "Show a post",
		Usage:   "lectern post show <room|slug> [flags]",
		Examples: []Example{
			{Description: "Show a post by slug", Command: "lectern post show my-first-post"},
			{Description: "Show a post by room ID", Command: "lectern post show '!abc123:lectern.press'"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("show", pflag.ContinueOnError)
			flagSet.BoolVar(&asJSON, "json", false, "output as JSON")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one post (room ID or slug) is required")
			}

			service, session, err := connectService(config)
			if err != nil {
				return err
			}
			defer session.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			postID, err := resolveRoom(ctx, service, session, args[0])
			if err != nil {
				return err
			}
			post, err := service.GetPost(ctx, postID)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(post)
			}
			printPost(post)
			return nil
		},
	}
}

func postAddCommand(config *Config) *Command {
	var blogFlag string
	var title, summary, slug, bodyFile string

	return &Command{
		Name:    "add",
		Summary: "Publish a new post",
		Usage:   "lectern post add --title <title> --body <file> [flags]",
		Examples: []Example{
			{Description: "Publish a post from a markdown file", Command: "lectern post add --title 'Hello' --slug hello --body hello.md"},
			{Description: "Publish from stdin", Command: "cat hello.md | lectern post add --title 'Hello' --body -"},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("add", pflag.ContinueOnError)
			flagSet.StringVar(&blogFlag, "blog", "", "blog room ID (default: config file)")
			flagSet.StringVar(&title, "title", "", "post title (required)")
			flagSet.StringVar(&summary, "summary", "", "post summary")
			flagSet.StringVar(&slug, "slug", "", "post slug for the public alias")
			flagSet.StringVar(&bodyFile, "body", "", "markdown file with the post body, or - for stdin (required)")
			return flagSet
		},
		Run: func(args []string) error {
			if title == "" {
				return fmt.Errorf("--title is required")
			}
			if bodyFile == "" {
				return fmt.Errorf("--body is required")
			}

			text, err := readBody(bodyFile)
			if err != nil {
				return err
			}
			rendered, err := renderMarkdown(text)
			if err != nil {
				return err
			}

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

			metadata, err := service.AddPost(ctx, roomID, blog.NewPost{
				Title:   title,
				Summary: summary,
				Slug:    slug,
				Text:    text,
				HTML:    rendered,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Published %s\n", metadata.RoomID)
			if metadata.Slug != "" {
				fmt.Printf("Slug: %s\n", metadata.Slug)
			}
			return nil
		},
	}
}

func postEditCommand(config *Config) *Command {
	var title, summary, slug, bodyFile string
	var flags *pflag.FlagSet

	return &Command{
		Name:    "edit",
		Summary: "Edit a post's fields",
		Usage:   "lectern post edit <room|slug> [flags]",
		Description: `Edit a post. Only the fields named by flags change; everything else
is left untouched. An explicitly empty --slug removes the post's alias.`,
		Examples: []Example{
			{Description: "Retitle a post", Command: "lectern post edit hello --title 'Hello, world'"},
			{Description: "Replace the body", Command: "lectern post edit hello --body hello.md"},
			{Description: "Remove the slug", Command: "lectern post edit '!abc123:lectern.press' --slug ''"},
		},
		Flags: func() *pflag.FlagSet {
			flags = pflag.NewFlagSet("edit", pflag.ContinueOnError)
			flags.StringVar(&title, "title", "", "new title")
			flags.StringVar(&summary, "summary", "", "new summary")
			flags.StringVar(&slug, "slug", "", "new slug (empty removes the alias)")
			flags.StringVar(&bodyFile, "body", "", "markdown file with the new body, or - for stdin")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one post (room ID or slug) is required")
			}

			// Changed flags, not non-empty values, decide what is
			// edited: --slug '' is a deliberate removal.
			edit := blog.PostEdit{}

			service, session, err := connectService(config)
			if err != nil {
				return err
			}
			defer session.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			postID, err := resolveRoom(ctx, service, session, args[0])
			if err != nil {
				return err
			}

			if flags.Changed("title") {
				edit.Title = &title
			}
			if flags.Changed("summary") {
				edit.Summary = &summary
			}
			if flags.Changed("slug") {
				edit.Slug = &slug
			}
			if flags.Changed("body") {
				text, err := readBody(bodyFile)
				if err != nil {
					return err
				}
				rendered, err := renderMarkdown(text)
				if err != nil {
					return err
				}
				edit.Content = &blog.ContentEdit{Text: text, HTML: rendered}
			}

			if edit.Title == nil && edit.Summary == nil && edit.Slug == nil && edit.Content == nil {
				return fmt.Errorf("nothing to edit (set --title, --summary, --slug, or --body)")
			}

			if err := service.EditPost(ctx, postID, edit); err != nil {
				return err
			}
			fmt.Printf("Edited %s\n", postID)
			return nil
		},
	}
}

func postDeleteCommand(config *Config) *Command {
	var reason string

	return &Command{
		Name:    "delete",
		Summary: "Delete a post",
		Usage:   "lectern post delete <room|slug> [flags]",
		Description: `Delete a post: unlink it from its blog, remove its alias, kick the
other members, and leave the room. The room itself survives on the
homeserver but is no longer reachable through the blog.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("delete", pflag.ContinueOnError)
			flagSet.StringVar(&reason, "reason", "post deleted", "reason recorded on the redactions and kicks")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("exactly one post (room ID or slug) is required")
			}

			service, session, err := connectService(config)
			if err != nil {
				return err
			}
			defer session.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			postID, err := resolveRoom(ctx, service, session, args[0])
			if err != nil {
				return err
			}
			if err := service.DeletePost(ctx, postID, reason); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", postID)
			return nil
		},
	}
}
