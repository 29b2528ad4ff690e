// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"fmt"
	"strings"
)

// RoomAlias is a validated Matrix room alias (e.g., "#blog.hello:lectern.press").
//
// Room aliases are human-readable names bound to room IDs through the
// homeserver's directory. Lectern constructs aliases from a validated
// slug and server name; aliases arriving in API responses are parsed
// at the boundary.
type RoomAlias struct {
	alias string
}

// ParseRoomAlias validates and wraps a raw Matrix room alias string.
func ParseRoomAlias(raw string) (RoomAlias, error) {
	if err := validateSigilID(raw, '#', "room alias"); err != nil {
		return RoomAlias{}, err
	}
	return RoomAlias{alias: raw}, nil
}

// MustParseRoomAlias is like ParseRoomAlias but panics on error. Use in
// tests and static initialization where the input is known-valid.
func MustParseRoomAlias(raw string) RoomAlias {
	a, err := ParseRoomAlias(raw)
	if err != nil {
		panic(fmt.Sprintf("ref.MustParseRoomAlias(%q): %v", raw, err))
	}
	return a
}

// NewRoomAlias constructs a RoomAlias from a localpart and a validated
// server name. The localpart must be non-empty and contain no ':'.
func NewRoomAlias(localpart string, server ServerName) (RoomAlias, error) {
	if localpart == "" {
		return RoomAlias{}, fmt.Errorf("empty alias localpart")
	}
	if strings.ContainsRune(localpart, ':') {
		return RoomAlias{}, fmt.Errorf("alias localpart contains ':': %q", localpart)
	}
	if server.IsZero() {
		return RoomAlias{}, fmt.Errorf("alias server name is unset")
	}
	return RoomAlias{alias: "#" + localpart + ":" + server.String()}, nil
}

// String returns the full room alias string.
func (a RoomAlias) String() string { return a.alias }

// IsZero reports whether the RoomAlias is the zero value (uninitialized).
func (a RoomAlias) IsZero() bool { return a.alias == "" }

// Localpart returns the alias localpart without the '#' prefix or
// ':server' suffix. Returns "" for the zero value.
func (a RoomAlias) Localpart() string {
	if a.alias == "" {
		return ""
	}
	// Safe: shape validated at construction.
	rest := a.alias[1:]
	return rest[:strings.IndexByte(rest, ':')]
}

// Server returns the server name portion of the alias. Returns "" for
// the zero value.
func (a RoomAlias) Server() string {
	if a.alias == "" {
		return ""
	}
	rest := a.alias[1:]
	return rest[strings.IndexByte(rest, ':')+1:]
}

// MarshalText implements encoding.TextMarshaler.
func (a RoomAlias) MarshalText() ([]byte, error) {
	if a.alias == "" {
		return []byte{}, nil
	}
	return []byte(a.alias), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. An empty input
// produces the zero value (unset alias).
func (a *RoomAlias) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*a = RoomAlias{}
		return nil
	}
	parsed, err := ParseRoomAlias(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
