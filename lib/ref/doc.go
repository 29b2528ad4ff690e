// Copyright 2026 The Lectern Authors
// SPDX-License-Identifier: Apache-2.0

// Package ref provides validated value types for Matrix identifiers:
// room IDs, room aliases, event IDs, event types, user IDs, and server
// names.
//
// Raw identifier strings arrive from two places: Matrix API responses
// and user input (CLI arguments, config files). Both are parsed at the
// boundary into these types, so the rest of the codebase never handles
// an unvalidated identifier and never confuses one identifier kind for
// another at compile time.
//
// All types are immutable value types. The zero value is never valid;
// use IsZero to check. Types implement encoding.TextMarshaler and
// TextUnmarshaler so they can be used directly in JSON structs and as
// map keys, with validation happening during deserialization.
package ref
