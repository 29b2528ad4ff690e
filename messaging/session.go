// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lectern-press/lectern/lib/ref"
)

// Session is the capability interface the blog orchestrator is written
// against. *DirectSession implements it over the Matrix client-server
// API; tests implement it with in-memory fakes.
//
// Every method is a single network round trip (SpaceHierarchy may
// paginate). The orchestrator composes these into multi-step
// operations; the Session itself carries no domain knowledge.
type Session interface {
	// UserID returns the acting account's fully-qualified user ID.
	UserID() ref.UserID

	// ServerName returns the session's homeserver domain, used for
	// "via" routing hints and alias construction.
	ServerName() ref.ServerName

	// Close releases any resources held by the session. Idempotent.
	Close() error

	// WhoAmI validates the session and returns the user ID.
	WhoAmI(ctx context.Context) (ref.UserID, error)

	// CreateRoom creates a new room.
	CreateRoom(ctx context.Context, request CreateRoomRequest) (*CreateRoomResponse, error)

	// GetRoomState fetches all current state events from a room.
	GetRoomState(ctx context.Context, roomID ref.RoomID) ([]Event, error)

	// GetStateEvent fetches one state record's content by
	// (room, type, state key). Absent records surface as a
	// *MatrixError satisfying IsNotFound.
	GetStateEvent(ctx context.Context, roomID ref.RoomID, eventType ref.EventType, stateKey string) (json.RawMessage, error)

	// SendStateEvent writes a state record. Returns the new event ID.
	SendStateEvent(ctx context.Context, roomID ref.RoomID, eventType ref.EventType, stateKey string, content any) (ref.EventID, error)

	// SendMessage sends an m.room.message event. Returns the event ID.
	SendMessage(ctx context.Context, roomID ref.RoomID, content MessageContent) (ref.EventID, error)

	// GetEvent fetches a single event by ID, with relation
	// aggregations.
	GetEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) (*Event, error)

	// RedactEvent tombstones an event with an optional reason.
	RedactEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID, reason string) (ref.EventID, error)

	// LeaveRoom departs a room.
	LeaveRoom(ctx context.Context, roomID ref.RoomID) error

	// KickUser evicts a member from a room with an optional reason.
	KickUser(ctx context.Context, roomID ref.RoomID, userID ref.UserID, reason string) error

	// CreateRoomAlias binds an alias to a room in the directory.
	CreateRoomAlias(ctx context.Context, alias ref.RoomAlias, roomID ref.RoomID) error

	// DeleteRoomAlias removes an alias from the directory.
	DeleteRoomAlias(ctx context.Context, alias ref.RoomAlias) error

	// ResolveAlias resolves an alias to a room ID.
	ResolveAlias(ctx context.Context, alias ref.RoomAlias) (ref.RoomID, error)

	// SpaceHierarchy fetches a space summary: the space room plus its
	// directly linked children.
	SpaceHierarchy(ctx context.Context, roomID ref.RoomID) (*RoomHierarchyResponse, error)
}

// Compile-time check: *DirectSession implements Session.
var _ Session = (*DirectSession)(nil)

// GetState reads a typed state record from a room: GetStateEvent plus
// unmarshaling into T. The standard way to read typed records:
//
//	pointer, err := messaging.GetState[schema.PostContentPointer](ctx, session, roomID, schema.EventTypePostContent, "")
//
// Returns an error if the record does not exist (IsNotFound) or the
// content cannot be unmarshaled into T.
func GetState[T any](ctx context.Context, session Session, roomID ref.RoomID, eventType ref.EventType, stateKey string) (T, error) {
	var zero T
	content, err := session.GetStateEvent(ctx, roomID, eventType, stateKey)
	if err != nil {
		return zero, err
	}
	var result T
	if err := json.Unmarshal(content, &result); err != nil {
		return zero, fmt.Errorf("unmarshaling %s from room %s: %w", eventType, roomID, err)
	}
	return result, nil
}
