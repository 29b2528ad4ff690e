// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides HTTP I/O helpers shared by the messaging
// client. Response body reads are bounded at MaxResponseSize so a
// misbehaving server cannot exhaust memory. These helpers are for JSON
// API responses, not streaming transfers.
package netutil

import "io"

// MaxResponseSize bounds JSON API response body reads: 64 MB.
// Legitimate Matrix client-API responses are orders of magnitude
// smaller; the limit is generous enough to never interfere with
// normal operation.
const MaxResponseSize int64 = 64 << 20

// ReadResponse reads a JSON API response body up to MaxResponseSize
// bytes. Use instead of io.ReadAll on HTTP response bodies.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}
