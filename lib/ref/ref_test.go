// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package ref

import (
	"encoding/json"
	"testing"
)

func TestParseRoomID(t *testing.T) {
	valid := []string{
		"!abc123:lectern.press",
		"!x:server",
		"!opaque:matrix.example.com:8448",
	}
	for _, raw := range valid {
		roomID, err := ParseRoomID(raw)
		if err != nil {
			t.Errorf("ParseRoomID(%q) failed: %v", raw, err)
			continue
		}
		if roomID.String() != raw {
			t.Errorf("ParseRoomID(%q).String() = %q", raw, roomID.String())
		}
	}

	invalid := []string{
		"",
		"abc:server",    // missing sigil
		"!abc",          // no server
		"!:server",      // empty local part
		"!abc:",         // empty server
		"#alias:server", // wrong sigil
		"@user:server",  // wrong sigil
	}
	for _, raw := range invalid {
		if _, err := ParseRoomID(raw); err == nil {
			t.Errorf("ParseRoomID(%q) should have failed", raw)
		}
	}
}

func TestParseRoomAlias(t *testing.T) {
	alias, err := ParseRoomAlias("#blog.hello:lectern.press")
	if err != nil {
		t.Fatalf("ParseRoomAlias failed: %v", err)
	}
	if alias.Localpart() != "blog.hello" {
		t.Errorf("Localpart = %q, want %q", alias.Localpart(), "blog.hello")
	}
	if alias.Server() != "lectern.press" {
		t.Errorf("Server = %q, want %q", alias.Server(), "lectern.press")
	}

	if _, err := ParseRoomAlias("!room:server"); err == nil {
		t.Error("ParseRoomAlias should reject a room ID")
	}
	if _, err := ParseRoomAlias(""); err == nil {
		t.Error("ParseRoomAlias should reject an empty string")
	}
}

func TestNewRoomAlias(t *testing.T) {
	server := MustParseServerName("lectern.press")
	alias, err := NewRoomAlias("blog.my-post", server)
	if err != nil {
		t.Fatalf("NewRoomAlias failed: %v", err)
	}
	if alias.String() != "#blog.my-post:lectern.press" {
		t.Errorf("alias = %q", alias.String())
	}

	if _, err := NewRoomAlias("", server); err == nil {
		t.Error("NewRoomAlias should reject an empty localpart")
	}
	if _, err := NewRoomAlias("has:colon", server); err == nil {
		t.Error("NewRoomAlias should reject a localpart with ':'")
	}
	if _, err := NewRoomAlias("ok", ServerName{}); err == nil {
		t.Error("NewRoomAlias should reject a zero server name")
	}
}

func TestParseEventID(t *testing.T) {
	for _, raw := range []string{"$abc123", "$old-style:server"} {
		if _, err := ParseEventID(raw); err != nil {
			t.Errorf("ParseEventID(%q) failed: %v", raw, err)
		}
	}
	for _, raw := range []string{"", "$", "abc"} {
		if _, err := ParseEventID(raw); err == nil {
			t.Errorf("ParseEventID(%q) should have failed", raw)
		}
	}
}

func TestParseUserID(t *testing.T) {
	userID, err := ParseUserID("@author:lectern.press")
	if err != nil {
		t.Fatalf("ParseUserID failed: %v", err)
	}
	if userID.Localpart() != "author" {
		t.Errorf("Localpart = %q", userID.Localpart())
	}
	if userID.Server() != "lectern.press" {
		t.Errorf("Server = %q", userID.Server())
	}
	if _, err := ParseUserID("author:lectern.press"); err == nil {
		t.Error("ParseUserID should require the '@' sigil")
	}
}

func TestParseServerName(t *testing.T) {
	for _, raw := range []string{"lectern.press", "localhost:6167", "matrix.example.com:8448"} {
		if _, err := ParseServerName(raw); err != nil {
			t.Errorf("ParseServerName(%q) failed: %v", raw, err)
		}
	}
	for _, raw := range []string{"", "has space", "@sigil", "#sigil"} {
		if _, err := ParseServerName(raw); err == nil {
			t.Errorf("ParseServerName(%q) should have failed", raw)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Room  RoomID    `json:"room"`
		Alias RoomAlias `json:"alias,omitempty"`
		Event EventID   `json:"event,omitempty"`
	}

	original := wrapper{
		Room:  MustParseRoomID("!p1:s"),
		Alias: MustParseRoomAlias("#blog.hello:s"),
		Event: MustParseEventID("$m1"),
	}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded wrapper
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded != original {
		t.Errorf("round trip mismatch: %+v != %+v", decoded, original)
	}

	// Invalid identifiers are rejected during deserialization.
	var bad wrapper
	if err := json.Unmarshal([]byte(`{"room":"not-a-room"}`), &bad); err == nil {
		t.Error("unmarshal should reject an invalid room ID")
	}
}
