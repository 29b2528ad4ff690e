// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging wraps the Matrix client-server API for Lectern's
// blog orchestration needs.
//
// The package provides two core types. [Client] is an unauthenticated
// Matrix client holding the homeserver URL and HTTP transport; it
// handles login and token-based session construction. [DirectSession]
// wraps a Client with an access token for authenticated operations:
// room creation, state events (single record and full room state),
// message sends with idempotent transaction IDs, event fetch and
// redaction, room alias directory binding, space hierarchy summaries,
// kicks, and leaves.
//
// [Session] is the capability interface the blog orchestrator is
// written against; *DirectSession implements it. Tests inject fakes
// implementing the same interface, so the orchestrator carries no
// transport, auth, or retry logic of its own.
//
// All API errors are returned as [*MatrixError] with the standard
// Matrix error code (M_FORBIDDEN, M_NOT_FOUND, ...) and HTTP status.
// [IsNotFound] tests for the absent-record case that the orchestrator
// downgrades on optional reads. Request URLs are built by string
// concatenation rather than url.URL to avoid double-encoding of path
// segments that contain URL-encoded characters (room aliases, event
// IDs).
//
// Access tokens and passwords live in mmap-backed [secret.Buffer]
// memory (locked against swap, excluded from core dumps); callers must
// Close sessions to release it.
package messaging
