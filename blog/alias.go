// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package blog

import (
	"strings"

	"github.com/lectern-press/lectern/lib/ref"
)

// LocalAlias returns the alias localpart for a slug: the configured
// prefix followed by the slug (e.g. "blog.my-post"). This is the form
// the createRoom endpoint takes in room_alias_name.
func (s *Service) LocalAlias(slug string) string {
	return s.prefix + slug
}

// Alias returns the fully-qualified room alias for a slug on the
// session's own server (e.g. "#blog.my-post:lectern.press").
func (s *Service) Alias(slug string) (ref.RoomAlias, error) {
	return ref.NewRoomAlias(s.LocalAlias(slug), s.session.ServerName())
}

// SlugFromAlias derives a post slug from a room alias by stripping the
// configured prefix from the localpart. Returns ("", false) when the
// alias does not follow the prefix scheme — a mismatched alias yields
// no slug, never an error.
func (s *Service) SlugFromAlias(alias ref.RoomAlias) (string, bool) {
	localpart := alias.Localpart()
	slug, found := strings.CutPrefix(localpart, s.prefix)
	if !found || slug == "" {
		return "", false
	}
	return slug, true
}
