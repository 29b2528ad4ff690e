// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lectern-press/lectern/blog"
	"github.com/lectern-press/lectern/lib/ref"
	"github.com/lectern-press/lectern/messaging"
)

// connectService restores the saved session and wraps it in a blog
// Service configured from the config file. The caller must Close the
// returned session.
func connectService(config *Config) (*blog.Service, *messaging.DirectSession, error) {
	session, err := Connect()
	if err != nil {
		return nil, nil, err
	}
	service, err := blog.New(blog.Config{
		Session:     session,
		AliasPrefix: config.AliasPrefix,
		Logger:      NewLogger(false),
	})
	if err != nil {
		session.Close()
		return nil, nil, err
	}
	return service, session, nil
}

// resolveRoom turns a command-line room argument into a room ID. Room
// IDs pass through; aliases ("#..." or a bare slug) are resolved via
// the directory. A bare slug is qualified with the configured prefix
// and the session's own server.
func resolveRoom(ctx context.Context, service *blog.Service, session messaging.Session, arg string) (ref.RoomID, error) {
	switch {
	case strings.HasPrefix(arg, "!"):
		return ref.ParseRoomID(arg)
	case strings.HasPrefix(arg, "#"):
		alias, err := ref.ParseRoomAlias(arg)
		if err != nil {
			return ref.RoomID{}, err
		}
		return session.ResolveAlias(ctx, alias)
	default:
		alias, err := service.Alias(arg)
		if err != nil {
			return ref.RoomID{}, fmt.Errorf("building alias from slug %q: %w", arg, err)
		}
		return session.ResolveAlias(ctx, alias)
	}
}

// blogRoom resolves the target blog: the --blog flag if set, otherwise
// the config file's default.
func blogRoom(config *Config, flagValue string) (ref.RoomID, error) {
	raw := flagValue
	if raw == "" {
		raw = config.Blog
	}
	if raw == "" {
		return ref.RoomID{}, fmt.Errorf("no blog specified (use --blog or set \"blog\" in %s)", ConfigFilePath())
	}
	return ref.ParseRoomID(raw)
}

// writeJSON prints value as indented JSON on stdout.
func writeJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
