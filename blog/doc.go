// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

// Package blog implements the blog abstraction over Matrix rooms.
//
// A blog is a space room (m.room.create content carries "type":
// "m.space"); each post is a child room holding a single editable
// message. The [Service] translates blog operations into sequences of
// state-event reads and writes against an injected [messaging.Session]
// and reconstructs blog and post views by interpreting state snapshots:
//
//   - m.room.name        → blog title / post title
//   - m.room.topic       → blog description / post summary
//   - m.room.canonical_alias → post slug (prefix-stripped) and publish time
//   - m.space.child / m.space.parent → bidirectional blog↔post linkage
//   - press.lectern.post → pointer to the content-bearing message event
//
// The Service is stateless: every operation takes full input and talks
// to the homeserver; there is no cross-call caching. Independent
// sub-operations within one call run concurrently and join on the
// first error; partial writes already issued are left in place (the
// homeserver offers no multi-room transactions, and the Service makes
// no attempt at rollback).
//
// Structural violations of the blog model — a room without the space
// marker, a post without a parent link or content pointer — surface as
// [*ServiceError] with a machine-readable [Kind]. Protocol errors
// propagate unchanged, except that an absent record (M_NOT_FOUND) on a
// field declared optional (summary, slug) is downgraded to the zero
// value.
package blog
