// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package blog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/lectern-press/lectern/lib/ref"
	"github.com/lectern-press/lectern/messaging"
)

// fakeSession is an in-memory messaging.Session. It keeps room state,
// timeline events, the alias directory, and hierarchy summaries in
// maps, and records every mutating call so tests can assert on exactly
// what the orchestrator did.
type fakeSession struct {
	userID ref.UserID
	server ref.ServerName

	mu        sync.Mutex
	state     map[ref.RoomID]map[stateRef]messaging.Event
	timeline  map[ref.EventID]*messaging.Event
	hierarchy map[ref.RoomID]*messaging.RoomHierarchyResponse
	directory map[ref.RoomAlias]ref.RoomID

	nextID int
	nowMS  int64

	createRequests []messaging.CreateRoomRequest
	sentMessages   []sentMessage
	stateWrites    []stateWrite
	redactions     []redaction
	kicks          []kickCall
	aliasBinds     []aliasBind
	aliasDeletes   []ref.RoomAlias
	leftRooms      []ref.RoomID
}

type sentMessage struct {
	roomID  ref.RoomID
	content messaging.MessageContent
	eventID ref.EventID
}

type stateWrite struct {
	roomID    ref.RoomID
	eventType ref.EventType
	stateKey  string
	content   json.RawMessage
}

type redaction struct {
	roomID  ref.RoomID
	eventID ref.EventID
	reason  string
}

type kickCall struct {
	roomID ref.RoomID
	userID ref.UserID
	reason string
}

type aliasBind struct {
	alias  ref.RoomAlias
	roomID ref.RoomID
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		userID:    ref.MustParseUserID("@author:lectern.test"),
		server:    ref.MustParseServerName("lectern.test"),
		state:     make(map[ref.RoomID]map[stateRef]messaging.Event),
		timeline:  make(map[ref.EventID]*messaging.Event),
		hierarchy: make(map[ref.RoomID]*messaging.RoomHierarchyResponse),
		directory: make(map[ref.RoomAlias]ref.RoomID),
		nowMS:     1_700_000_000_000,
	}
}

func newTestService(t *testing.T, session *fakeSession) *Service {
	t.Helper()
	service, err := New(Config{Session: session})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return service
}

func notFound() error {
	return &messaging.MatrixError{
		Code:       messaging.ErrCodeNotFound,
		Message:    "not found",
		StatusCode: http.StatusNotFound,
	}
}

// newEventID and tick must be called with mu held.
func (f *fakeSession) newEventID() ref.EventID {
	f.nextID++
	return ref.MustParseEventID(fmt.Sprintf("$evt-%d:lectern.test", f.nextID))
}

func (f *fakeSession) tick() int64 {
	f.nowMS += 1000
	return f.nowMS
}

// putState writes a state record directly, bypassing call recording.
// Tests use it to seed rooms.
func (f *fakeSession) putState(roomID ref.RoomID, eventType ref.EventType, stateKey string, content any) messaging.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.putStateLocked(roomID, eventType, stateKey, content)
}

func (f *fakeSession) putStateLocked(roomID ref.RoomID, eventType ref.EventType, stateKey string, content any) messaging.Event {
	raw, err := json.Marshal(content)
	if err != nil {
		panic(err)
	}
	key := stateKey
	event := messaging.Event{
		EventID:        f.newEventID(),
		Type:           eventType,
		Sender:         f.userID,
		OriginServerTS: f.tick(),
		Content:        raw,
		RoomID:         roomID,
		StateKey:       &key,
	}
	room := f.state[roomID]
	if room == nil {
		room = make(map[stateRef]messaging.Event)
		f.state[roomID] = room
	}
	room[stateRef{eventType, stateKey}] = event
	return event
}

// putMessage adds a timeline event directly. Tests use it to seed post
// content.
func (f *fakeSession) putMessage(roomID ref.RoomID, content messaging.MessageContent) *messaging.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(content)
	if err != nil {
		panic(err)
	}
	event := &messaging.Event{
		EventID:        f.newEventID(),
		Type:           "m.room.message",
		Sender:         f.userID,
		OriginServerTS: f.tick(),
		Content:        raw,
		RoomID:         roomID,
	}
	f.timeline[event.EventID] = event
	return event
}

func (f *fakeSession) UserID() ref.UserID         { return f.userID }
func (f *fakeSession) ServerName() ref.ServerName { return f.server }
func (f *fakeSession) Close() error               { return nil }

func (f *fakeSession) WhoAmI(ctx context.Context) (ref.UserID, error) {
	return f.userID, nil
}

func (f *fakeSession) CreateRoom(ctx context.Context, request messaging.CreateRoomRequest) (*messaging.CreateRoomResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createRequests = append(f.createRequests, request)

	f.nextID++
	roomID := ref.MustParseRoomID(fmt.Sprintf("!room-%d:lectern.test", f.nextID))
	if request.Name != "" {
		f.putStateLocked(roomID, "m.room.name", "", map[string]string{"name": request.Name})
	}
	if request.Topic != "" {
		f.putStateLocked(roomID, "m.room.topic", "", map[string]string{"topic": request.Topic})
	}
	for _, state := range request.InitialState {
		f.putStateLocked(roomID, state.Type, state.StateKey, state.Content)
	}
	if request.Alias != "" {
		alias := ref.MustParseRoomAlias(fmt.Sprintf("#%s:%s", request.Alias, f.server))
		f.directory[alias] = roomID
		f.putStateLocked(roomID, "m.room.canonical_alias", "", map[string]string{"alias": alias.String()})
	}
	return &messaging.CreateRoomResponse{RoomID: roomID}, nil
}

func (f *fakeSession) GetRoomState(ctx context.Context, roomID ref.RoomID) ([]messaging.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.state[roomID]
	if !ok {
		return nil, notFound()
	}
	events := make([]messaging.Event, 0, len(room))
	for _, event := range room {
		events = append(events, event)
	}
	return events, nil
}

func (f *fakeSession) GetStateEvent(ctx context.Context, roomID ref.RoomID, eventType ref.EventType, stateKey string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.state[roomID][stateRef{eventType, stateKey}]
	if !ok {
		return nil, notFound()
	}
	return event.Content, nil
}

func (f *fakeSession) SendStateEvent(ctx context.Context, roomID ref.RoomID, eventType ref.EventType, stateKey string, content any) (ref.EventID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event := f.putStateLocked(roomID, eventType, stateKey, content)
	f.stateWrites = append(f.stateWrites, stateWrite{
		roomID:    roomID,
		eventType: eventType,
		stateKey:  stateKey,
		content:   event.Content,
	})
	return event.EventID, nil
}

func (f *fakeSession) SendMessage(ctx context.Context, roomID ref.RoomID, content messaging.MessageContent) (ref.EventID, error) {
	f.mu.Lock()
	raw, err := json.Marshal(content)
	if err != nil {
		f.mu.Unlock()
		return ref.EventID{}, err
	}
	event := &messaging.Event{
		EventID:        f.newEventID(),
		Type:           "m.room.message",
		Sender:         f.userID,
		OriginServerTS: f.tick(),
		Content:        raw,
		RoomID:         roomID,
	}
	f.timeline[event.EventID] = event
	f.sentMessages = append(f.sentMessages, sentMessage{
		roomID:  roomID,
		content: content,
		eventID: event.EventID,
	})
	f.mu.Unlock()
	return event.EventID, nil
}

func (f *fakeSession) GetEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID) (*messaging.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.timeline[eventID]
	if !ok {
		return nil, notFound()
	}
	return event, nil
}

func (f *fakeSession) RedactEvent(ctx context.Context, roomID ref.RoomID, eventID ref.EventID, reason string) (ref.EventID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.redactions = append(f.redactions, redaction{roomID: roomID, eventID: eventID, reason: reason})
	return f.newEventID(), nil
}

func (f *fakeSession) LeaveRoom(ctx context.Context, roomID ref.RoomID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leftRooms = append(f.leftRooms, roomID)
	return nil
}

func (f *fakeSession) KickUser(ctx context.Context, roomID ref.RoomID, userID ref.UserID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kicks = append(f.kicks, kickCall{roomID: roomID, userID: userID, reason: reason})
	return nil
}

func (f *fakeSession) CreateRoomAlias(ctx context.Context, alias ref.RoomAlias, roomID ref.RoomID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.directory[alias] = roomID
	f.aliasBinds = append(f.aliasBinds, aliasBind{alias: alias, roomID: roomID})
	return nil
}

func (f *fakeSession) DeleteRoomAlias(ctx context.Context, alias ref.RoomAlias) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.directory[alias]; !ok {
		return notFound()
	}
	delete(f.directory, alias)
	f.aliasDeletes = append(f.aliasDeletes, alias)
	return nil
}

func (f *fakeSession) ResolveAlias(ctx context.Context, alias ref.RoomAlias) (ref.RoomID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	roomID, ok := f.directory[alias]
	if !ok {
		return ref.RoomID{}, notFound()
	}
	return roomID, nil
}

func (f *fakeSession) SpaceHierarchy(ctx context.Context, roomID ref.RoomID) (*messaging.RoomHierarchyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	response, ok := f.hierarchy[roomID]
	if !ok {
		return &messaging.RoomHierarchyResponse{}, nil
	}
	return response, nil
}

var _ messaging.Session = (*fakeSession)(nil)
