// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

package blog

import (
	"github.com/lectern-press/lectern/lib/ref"
	"github.com/lectern-press/lectern/messaging"
)

// stateRef keys a state record by (event type, state key).
type stateRef struct {
	eventType ref.EventType
	stateKey  string
}

// stateIndex is a lookup table over one fetched state snapshot, built
// once per fetch so record lookups are constant-time instead of
// repeated linear scans. The homeserver guarantees at most one current
// record per (type, state key).
type stateIndex struct {
	byRef  map[stateRef]*messaging.Event
	events []messaging.Event
}

func indexState(events []messaging.Event) *stateIndex {
	index := &stateIndex{
		byRef:  make(map[stateRef]*messaging.Event, len(events)),
		events: events,
	}
	for i := range events {
		event := &events[i]
		stateKey := ""
		if event.StateKey != nil {
			stateKey = *event.StateKey
		}
		index.byRef[stateRef{event.Type, stateKey}] = event
	}
	return index
}

// get returns the current record at (type, state key), if any.
func (i *stateIndex) get(eventType ref.EventType, stateKey string) (*messaging.Event, bool) {
	event, ok := i.byRef[stateRef{eventType, stateKey}]
	return event, ok
}

// ofType returns all records of the given type, in snapshot order.
func (i *stateIndex) ofType(eventType ref.EventType) []*messaging.Event {
	var matches []*messaging.Event
	for idx := range i.events {
		if i.events[idx].Type == eventType {
			matches = append(matches, &i.events[idx])
		}
	}
	return matches
}
