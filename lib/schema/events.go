// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

// Package schema defines the Matrix event types and state-event content
// shapes that Lectern reads and writes. A blog is a space room; each
// post is a child room carrying a single editable message. Four event
// types encode the blog semantics: the space marker in the creation
// event, the child and parent linkage events, and the content pointer.
package schema

import "github.com/lectern-press/lectern/lib/ref"

// Standard Matrix event types interpreted by the orchestrator.
const (
	// EventTypeCreate is the room creation event. A blog room's
	// creation content must carry "type": "m.space"; a room without
	// this marker is not a blog.
	//
	// State key: "" (always)
	EventTypeCreate ref.EventType = "m.room.create"

	// EventTypeName holds the room's display name. Maps to a blog's
	// title or a post's title.
	EventTypeName ref.EventType = "m.room.name"

	// EventTypeTopic holds the room's topic. Maps to a blog's
	// description or a post's summary.
	EventTypeTopic ref.EventType = "m.room.topic"

	// EventTypeCanonicalAlias points at the room's primary alias. A
	// post's slug is derived from it by stripping the configured
	// prefix; its origin_server_ts is the post's publish timestamp.
	EventTypeCanonicalAlias ref.EventType = "m.room.canonical_alias"

	// EventTypeHistoryVisibility controls who may read the room
	// timeline. Post rooms are created with "world_readable" so
	// published content is visible without membership.
	EventTypeHistoryVisibility ref.EventType = "m.room.history_visibility"

	// EventTypeMember is a membership state event; the state key is
	// the member's user ID. Post deletion evicts every joined or
	// invited member other than the acting user before leaving.
	EventTypeMember ref.EventType = "m.room.member"

	// EventTypeMessage is a timeline message event. Post content is a
	// single message; edits send replacements with an m.replace
	// relation rather than new state.
	EventTypeMessage ref.EventType = "m.room.message"

	// EventTypeSpaceChild links a space to a child room. Written on
	// the blog room with the post's room ID as state key.
	EventTypeSpaceChild ref.EventType = "m.space.child"

	// EventTypeSpaceParent links a child room back to its space.
	// Written on the post room with the blog's room ID as state key
	// and Canonical set, so the parent record uniquely determines the
	// owning blog.
	EventTypeSpaceParent ref.EventType = "m.space.parent"
)

// EventTypePostContent is Lectern's content-pointer event. Written once
// on each post room (state key always ""), its value is the event ID of
// the message that holds the post's canonical content. The pointer is
// immutable: edits publish replacement messages and never move it.
const EventTypePostContent ref.EventType = "press.lectern.post"

// RoomTypeSpace is the "type" value in m.room.create content that marks
// a room as a space.
const RoomTypeSpace = "m.space"

// Relation types and membership values referenced by the orchestrator.
const (
	// RelTypeReplace is the event-replacement relation (message edits).
	RelTypeReplace = "m.replace"

	// MembershipJoin is the m.room.member membership value for joined
	// members.
	MembershipJoin = "join"

	// MembershipInvite is the m.room.member membership value for users
	// with a pending invite. Kicking an invited user revokes the
	// invite.
	MembershipInvite = "invite"

	// HistoryVisibilityWorldReadable allows anyone to read the room
	// timeline without joining.
	HistoryVisibilityWorldReadable = "world_readable"
)

// CreateContent is the content of m.room.create. Only the room type
// marker matters to Lectern.
type CreateContent struct {
	Type string `json:"type,omitempty"`
}

// NameContent is the content of m.room.name.
type NameContent struct {
	Name string `json:"name"`
}

// TopicContent is the content of m.room.topic.
type TopicContent struct {
	Topic string `json:"topic"`
}

// CanonicalAliasContent is the content of m.room.canonical_alias.
type CanonicalAliasContent struct {
	Alias ref.RoomAlias `json:"alias,omitempty"`
}

// HistoryVisibilityContent is the content of m.room.history_visibility.
type HistoryVisibilityContent struct {
	HistoryVisibility string `json:"history_visibility"`
}

// MemberContent is the content of m.room.member.
type MemberContent struct {
	Membership  string `json:"membership"`
	DisplayName string `json:"displayname,omitempty"`
}

// SpaceChildContent is the content of m.space.child on the blog room.
// Via lists servers through which the child room is reachable.
type SpaceChildContent struct {
	Via []string `json:"via"`
}

// SpaceParentContent is the content of m.space.parent on the post room.
// Canonical marks the parent as the room's primary space.
type SpaceParentContent struct {
	Via       []string `json:"via"`
	Canonical bool     `json:"canonical"`
}

// PostContentPointer is the content of press.lectern.post: the event ID
// of the message holding the post's canonical content.
type PostContentPointer struct {
	EventID ref.EventID `json:"event_id"`
}
