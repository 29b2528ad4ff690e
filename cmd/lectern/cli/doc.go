// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the lectern command-line interface: a small
// command tree over the blog orchestrator, plus session and config
// handling. Authentication state lives in a session file written by
// "lectern login"; every other command loads it transparently.
package cli
