// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package blog

import (
	"fmt"
	"log/slog"

	"github.com/lectern-press/lectern/lib/ref"
	"github.com/lectern-press/lectern/messaging"
)

// DefaultAliasPrefix is the alias localpart prefix under which post
// slugs live: slug "my-post" becomes alias "#blog.my-post:server".
const DefaultAliasPrefix = "blog."

// Config holds configuration for creating a Service.
type Config struct {
	// Session is the authenticated protocol session all operations go
	// through. Required.
	Session messaging.Session
	// AliasPrefix overrides DefaultAliasPrefix. The prefix is part of
	// the alias localpart, so it must not contain ':' or the alias
	// sigil.
	AliasPrefix string
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Service orchestrates blog operations over a protocol session. It is
// stateless; a single Service is safe for concurrent use by multiple
// goroutines because every operation works entirely from its inputs.
type Service struct {
	session messaging.Session
	prefix  string
	logger  *slog.Logger
}

// New creates a blog Service.
func New(config Config) (*Service, error) {
	if config.Session == nil {
		return nil, fmt.Errorf("blog: Session is required")
	}

	prefix := config.AliasPrefix
	if prefix == "" {
		prefix = DefaultAliasPrefix
	}
	for _, c := range prefix {
		if c == ':' || c == '#' {
			return nil, fmt.Errorf("blog: invalid alias prefix %q", prefix)
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		session: config.Session,
		prefix:  prefix,
		logger:  logger,
	}, nil
}

// via returns the routing hints for space linkage events: the acting
// session's own server.
func (s *Service) via() []string {
	return []string{s.session.ServerName().String()}
}

// self returns the acting account's user ID.
func (s *Service) self() ref.UserID {
	return s.session.UserID()
}
