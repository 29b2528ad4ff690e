// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"encoding/json"

	"github.com/lectern-press/lectern/lib/ref"
)

// AuthResponse is returned by Login.
type AuthResponse struct {
	UserID      ref.UserID `json:"user_id"`
	AccessToken string     `json:"access_token"`
	DeviceID    string     `json:"device_id"`
}

// LoginRequest is the request body for password login.
type LoginRequest struct {
	Type                     string `json:"type"`
	User                     string `json:"user"`
	Password                 string `json:"password"`
	InitialDeviceDisplayName string `json:"initial_device_display_name,omitempty"`
}

// CreateRoomRequest holds parameters for creating a Matrix room.
type CreateRoomRequest struct {
	Name            string         `json:"name,omitempty"`
	Topic           string         `json:"topic,omitempty"`
	Alias           string         `json:"room_alias_name,omitempty"`  // local alias without # or :server
	Visibility      string         `json:"visibility,omitempty"`       // "public" or "private"
	Preset          string         `json:"preset,omitempty"`           // "private_chat", "public_chat", "trusted_private_chat"
	CreationContent map[string]any `json:"creation_content,omitempty"` // e.g. {"type": "m.space"} for spaces
	InitialState    []StateEvent   `json:"initial_state,omitempty"`
}

// CreateRoomResponse is returned by CreateRoom.
type CreateRoomResponse struct {
	RoomID ref.RoomID `json:"room_id"`
}

// StateEvent is a state event supplied at room creation.
type StateEvent struct {
	Type     ref.EventType `json:"type"`
	StateKey string        `json:"state_key"`
	Content  any           `json:"content"`
}

// MessageContent is the content body of an m.room.message event.
// Posts carry both a plain-text body and an HTML rendering. Edits set
// RelatesTo (m.replace pointing at the original event) plus NewContent
// holding the clean replacement, per the Matrix event-replacement
// convention.
type MessageContent struct {
	MsgType       string          `json:"msgtype"`
	Body          string          `json:"body"`
	Format        string          `json:"format,omitempty"`
	FormattedBody string          `json:"formatted_body,omitempty"`
	RelatesTo     *RelatesTo      `json:"m.relates_to,omitempty"`
	NewContent    *MessageContent `json:"m.new_content,omitempty"`
}

// RelatesTo expresses a relationship between events. For edits, RelType
// is "m.replace" and EventID is the event being replaced.
type RelatesTo struct {
	RelType string      `json:"rel_type"`
	EventID ref.EventID `json:"event_id"`
}

// FormatHTML is the format value for HTML-rendered message bodies.
const FormatHTML = "org.matrix.custom.html"

// NewHTMLMessage creates a text message carrying both a plain body and
// an HTML rendering.
func NewHTMLMessage(body, htmlBody string) MessageContent {
	return MessageContent{
		MsgType:       "m.text",
		Body:          body,
		Format:        FormatHTML,
		FormattedBody: htmlBody,
	}
}

// NewReplacementMessage creates a message that replaces a previously
// sent one. The fallback body carries the "(edited) " prefix for
// clients that do not render replacements; the clean content travels
// in m.new_content.
func NewReplacementMessage(replaces ref.EventID, body, htmlBody string) MessageContent {
	clean := NewHTMLMessage(body, htmlBody)
	return MessageContent{
		MsgType:       "m.text",
		Body:          "(edited) " + body,
		Format:        FormatHTML,
		FormattedBody: "(edited) " + htmlBody,
		RelatesTo: &RelatesTo{
			RelType: "m.replace",
			EventID: replaces,
		},
		NewContent: &clean,
	}
}

// Event represents a Matrix event from the server. Content is kept raw
// so callers decode into the appropriate lib/schema type.
type Event struct {
	EventID        ref.EventID     `json:"event_id"`
	Type           ref.EventType   `json:"type"`
	Sender         ref.UserID      `json:"sender"`
	OriginServerTS int64           `json:"origin_server_ts"`
	Content        json.RawMessage `json:"content"`
	RoomID         ref.RoomID      `json:"room_id,omitempty"`
	StateKey       *string         `json:"state_key,omitempty"`
	Unsigned       *EventUnsigned  `json:"unsigned,omitempty"`
}

// DecodeContent unmarshals the event content into v.
func (e Event) DecodeContent(v any) error {
	return json.Unmarshal(e.Content, v)
}

// EventUnsigned holds optional unsigned data attached to events,
// including the server-side relation aggregations.
type EventUnsigned struct {
	Age           int64                `json:"age,omitempty"`
	TransactionID string               `json:"transaction_id,omitempty"`
	Relations     *AggregatedRelations `json:"m.relations,omitempty"`
}

// AggregatedRelations is the server-computed bundle of events related
// to this one. Replace, when present, summarizes the most recent
// m.replace edit of the event.
type AggregatedRelations struct {
	Replace *Event `json:"m.replace,omitempty"`
}

// SendEventResponse is returned by SendMessage, SendEvent,
// SendStateEvent, and RedactEvent.
type SendEventResponse struct {
	EventID ref.EventID `json:"event_id"`
}

// WhoAmIResponse is returned by WhoAmI.
type WhoAmIResponse struct {
	UserID   ref.UserID `json:"user_id"`
	DeviceID string     `json:"device_id,omitempty"`
}

// ResolveAliasResponse is returned by ResolveAlias.
type ResolveAliasResponse struct {
	RoomID  ref.RoomID `json:"room_id"`
	Servers []string   `json:"servers"`
}

// KickRequest is the request body for kicking a user from a room.
type KickRequest struct {
	UserID ref.UserID `json:"user_id"`
	Reason string     `json:"reason,omitempty"`
}

// RedactRequest is the request body for redacting an event.
type RedactRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RoomHierarchyResponse is returned by SpaceHierarchy: the space room
// itself plus its directly linked children.
type RoomHierarchyResponse struct {
	Rooms     []HierarchyRoom `json:"rooms"`
	NextBatch string          `json:"next_batch,omitempty"`
}

// HierarchyRoom is one room in a space hierarchy summary.
type HierarchyRoom struct {
	RoomID           ref.RoomID    `json:"room_id"`
	Name             string        `json:"name,omitempty"`
	Topic            string        `json:"topic,omitempty"`
	CanonicalAlias   ref.RoomAlias `json:"canonical_alias,omitempty"`
	RoomType         string        `json:"room_type,omitempty"`
	NumJoinedMembers int           `json:"num_joined_members,omitempty"`
	WorldReadable    bool          `json:"world_readable,omitempty"`
}

// ServerVersionsResponse is returned by Client.ServerVersions.
type ServerVersionsResponse struct {
	Versions         []string        `json:"versions"`
	UnstableFeatures map[string]bool `json:"unstable_features,omitempty"`
}
