// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/lectern-press/lectern/lib/ref"
	"github.com/lectern-press/lectern/lib/secret"
)

// DirectSession is an authenticated Matrix session. It wraps a Client
// with an access token for authenticated API calls. DirectSessions are
// lightweight and safe to create in large numbers.
//
// The access token lives in a secret.Buffer (mmap-backed, locked
// against swap, excluded from core dumps). The caller must Close the
// session when it is no longer needed.
type DirectSession struct {
	client      *Client
	accessToken *secret.Buffer
	userID      ref.UserID

	// transactionCounter generates unique transaction IDs for
	// idempotent sends and redactions.
	transactionCounter atomic.Int64
}

// UserID returns the fully-qualified Matrix user ID of the session's
// account (e.g., "@author:lectern.press").
func (s *DirectSession) UserID() ref.UserID {
	return s.userID
}

// ServerName returns the session's homeserver domain, taken from the
// user ID. Used to populate "via" routing hints on space linkage
// events and to build room aliases.
func (s *DirectSession) ServerName() ref.ServerName {
	// The user ID was validated at construction, so its server part
	// is a valid server name.
	return ref.MustParseServerName(s.userID.Server())
}

// AccessToken returns the access token as a heap string. This creates
// a brief copy from the mmap-backed buffer — use only at boundaries
// that require a string (session file persistence).
func (s *DirectSession) AccessToken() string {
	return s.accessToken.String()
}

// Close releases the access token memory (zeros, unlocks, unmaps).
// Idempotent.
func (s *DirectSession) Close() error {
	if s.accessToken != nil {
		return s.accessToken.Close()
	}
	return nil
}

// WhoAmI validates the access token and returns the user ID. Useful
// for checking whether a stored token is still valid.
func (s *DirectSession) WhoAmI(ctx context.Context) (ref.UserID, error) {
	body, err := s.client.doRequest(ctx, http.MethodGet, "/_matrix/client/v3/account/whoami", s.accessToken, nil)
	if err != nil {
		return ref.UserID{}, fmt.Errorf("messaging: whoami failed: %w", err)
	}

	var response WhoAmIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ref.UserID{}, fmt.Errorf("messaging: failed to parse whoami response: %w", err)
	}
	return response.UserID, nil
}

// CreateRoom creates a new Matrix room.
func (s *DirectSession) CreateRoom(ctx context.Context, request CreateRoomRequest) (*CreateRoomResponse, error) {
	body, err := s.client.doRequest(ctx, http.MethodPost, "/_matrix/client/v3/createRoom", s.accessToken, request)
	if err != nil {
		return nil, fmt.Errorf("messaging: create room failed: %w", err)
	}

	var response CreateRoomResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse createRoom response: %w", err)
	}

	s.client.logger.Info("created matrix room",
		"room_id", response.RoomID,
		"alias", request.Alias,
		"name", request.Name,
	)
	return &response, nil
}

// SendMessage sends an m.room.message event to a room. Returns the
// event ID of the sent message.
func (s *DirectSession) SendMessage(ctx context.Context, roomID ref.RoomID, content MessageContent) (ref.EventID, error) {
	return s.SendEvent(ctx, roomID, "m.room.message", content)
}

// SendEvent sends a timeline event of any type to a room. Uses
// Matrix's idempotent PUT with a fresh transaction ID, so a caller
// retry after a network failure cannot duplicate the event. Returns
// the event ID.
func (s *DirectSession) SendEvent(ctx context.Context, roomID ref.RoomID, eventType ref.EventType, content any) (ref.EventID, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/send/%s/%s",
		url.PathEscape(roomID.String()),
		url.PathEscape(eventType.String()),
		url.PathEscape(s.nextTransactionID()),
	)

	body, err := s.client.doRequest(ctx, http.MethodPut, path, s.accessToken, content)
	if err != nil {
		return ref.EventID{}, fmt.Errorf("messaging: send event to %q failed: %w", roomID, err)
	}

	var response SendEventResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ref.EventID{}, fmt.Errorf("messaging: failed to parse send response: %w", err)
	}
	return response.EventID, nil
}

// SendStateEvent writes (or overwrites) the state record at
// (room, event type, state key). Returns the new event ID.
func (s *DirectSession) SendStateEvent(ctx context.Context, roomID ref.RoomID, eventType ref.EventType, stateKey string, content any) (ref.EventID, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/state/%s/%s",
		url.PathEscape(roomID.String()),
		url.PathEscape(eventType.String()),
		url.PathEscape(stateKey),
	)

	body, err := s.client.doRequest(ctx, http.MethodPut, path, s.accessToken, content)
	if err != nil {
		return ref.EventID{}, fmt.Errorf("messaging: send state event to %q failed: %w", roomID, err)
	}

	var response SendEventResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ref.EventID{}, fmt.Errorf("messaging: failed to parse send state response: %w", err)
	}
	return response.EventID, nil
}

// GetStateEvent fetches a specific state record's content from a room.
// Returns the raw JSON content — the caller unmarshals into the
// appropriate lib/schema type.
//
// If the record does not exist, returns a *MatrixError satisfying
// IsNotFound.
func (s *DirectSession) GetStateEvent(ctx context.Context, roomID ref.RoomID, eventType ref.EventType, stateKey string) (json.RawMessage, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/state/%s/%s",
		url.PathEscape(roomID.String()),
		url.PathEscape(eventType.String()),
		url.PathEscape(stateKey),
	)

	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("messaging: get state event %s[%q] in %q failed: %w", eventType, stateKey, roomID, err)
	}
	return json.RawMessage(body), nil
}

// GetRoomState fetches all current state events from a room as full
// event objects (type, state_key, sender, origin_server_ts, content).
func (s *DirectSession) GetRoomState(ctx context.Context, roomID ref.RoomID) ([]Event, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/state", url.PathEscape(roomID.String()))

	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("messaging: get room state for %q failed: %w", roomID, err)
	}

	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse room state response: %w", err)
	}
	return events, nil
}

// GetEvent fetches a single event by ID, including the server-side
// relation aggregations in unsigned.m.relations.
func (s *DirectSession) GetEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) (*Event, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/event/%s",
		url.PathEscape(roomID.String()),
		url.PathEscape(eventID.String()),
	)

	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("messaging: get event %s in %q failed: %w", eventID, roomID, err)
	}

	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("messaging: failed to parse event response: %w", err)
	}
	return &event, nil
}

// RedactEvent tombstones a previously sent event: its content is
// cleared while its identifier and timeline position are preserved.
// Uses the same idempotent transaction scheme as SendEvent.
func (s *DirectSession) RedactEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID, reason string) (ref.EventID, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/redact/%s/%s",
		url.PathEscape(roomID.String()),
		url.PathEscape(eventID.String()),
		url.PathEscape(s.nextTransactionID()),
	)

	body, err := s.client.doRequest(ctx, http.MethodPut, path, s.accessToken, RedactRequest{Reason: reason})
	if err != nil {
		return ref.EventID{}, fmt.Errorf("messaging: redact %s in %q failed: %w", eventID, roomID, err)
	}

	var response SendEventResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ref.EventID{}, fmt.Errorf("messaging: failed to parse redact response: %w", err)
	}
	return response.EventID, nil
}

// LeaveRoom departs a room.
func (s *DirectSession) LeaveRoom(ctx context.Context, roomID ref.RoomID) error {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/leave", url.PathEscape(roomID.String()))
	if _, err := s.client.doRequest(ctx, http.MethodPost, path, s.accessToken, struct{}{}); err != nil {
		return fmt.Errorf("messaging: leave room %q failed: %w", roomID, err)
	}
	return nil
}

// KickUser removes a user from a room with an optional reason.
func (s *DirectSession) KickUser(ctx context.Context, roomID ref.RoomID, userID ref.UserID, reason string) error {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/kick", url.PathEscape(roomID.String()))
	_, err := s.client.doRequest(ctx, http.MethodPost, path, s.accessToken, KickRequest{
		UserID: userID,
		Reason: reason,
	})
	if err != nil {
		return fmt.Errorf("messaging: kick %q from %q failed: %w", userID, roomID, err)
	}
	return nil
}

// CreateRoomAlias binds a room alias to a room ID in the homeserver's
// directory.
func (s *DirectSession) CreateRoomAlias(ctx context.Context, alias ref.RoomAlias, roomID ref.RoomID) error {
	path := "/_matrix/client/v3/directory/room/" + url.PathEscape(alias.String())
	requestBody := map[string]any{"room_id": roomID.String()}
	if _, err := s.client.doRequest(ctx, http.MethodPut, path, s.accessToken, requestBody); err != nil {
		return fmt.Errorf("messaging: create alias %q for %q failed: %w", alias, roomID, err)
	}
	return nil
}

// DeleteRoomAlias removes a room alias from the directory.
func (s *DirectSession) DeleteRoomAlias(ctx context.Context, alias ref.RoomAlias) error {
	path := "/_matrix/client/v3/directory/room/" + url.PathEscape(alias.String())
	if _, err := s.client.doRequest(ctx, http.MethodDelete, path, s.accessToken, nil); err != nil {
		return fmt.Errorf("messaging: delete alias %q failed: %w", alias, err)
	}
	return nil
}

// ResolveAlias resolves a room alias to a room ID.
func (s *DirectSession) ResolveAlias(ctx context.Context, alias ref.RoomAlias) (ref.RoomID, error) {
	path := "/_matrix/client/v3/directory/room/" + url.PathEscape(alias.String())
	body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil)
	if err != nil {
		return ref.RoomID{}, fmt.Errorf("messaging: resolve alias %q failed: %w", alias, err)
	}

	var response ResolveAliasResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ref.RoomID{}, fmt.Errorf("messaging: failed to parse resolve alias response: %w", err)
	}
	return response.RoomID, nil
}

// SpaceHierarchy fetches the hierarchy summary of a space: the space
// room itself plus all directly linked child rooms, each with name,
// topic, canonical alias, and room ID. Pagination is followed until
// the server reports no further batch.
func (s *DirectSession) SpaceHierarchy(ctx context.Context, roomID ref.RoomID) (*RoomHierarchyResponse, error) {
	path := fmt.Sprintf("/_matrix/client/v1/rooms/%s/hierarchy", url.PathEscape(roomID.String()))

	var result RoomHierarchyResponse
	from := ""
	for {
		var query url.Values
		if from != "" {
			query = url.Values{"from": []string{from}}
		}

		body, err := s.client.doRequest(ctx, http.MethodGet, path, s.accessToken, nil, query)
		if err != nil {
			return nil, fmt.Errorf("messaging: space hierarchy for %q failed: %w", roomID, err)
		}

		var page RoomHierarchyResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("messaging: failed to parse hierarchy response: %w", err)
		}

		result.Rooms = append(result.Rooms, page.Rooms...)
		if page.NextBatch == "" {
			return &result, nil
		}
		from = page.NextBatch
	}
}

// nextTransactionID generates a unique transaction ID for idempotent
// event sending. Format: "lectern-<timestamp_ms>-<counter>" to ensure
// uniqueness across process restarts.
func (s *DirectSession) nextTransactionID() string {
	counter := s.transactionCounter.Add(1)
	return fmt.Sprintf("lectern-%d-%d", time.Now().UnixMilli(), counter)
}
