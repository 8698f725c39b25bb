// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resource supplies taxonomy definition records to the engine.
//
// A Source resolves a schema version string to a decoded GmodDto. Two
// implementations are provided: the embedded source, which serves the
// gzip-compressed JSON payloads compiled into the binary, and the directory
// source, which reads the same file format from disk for local overrides.
//
// # Ownership Model
//
// A GmodDto returned by a Source may be shared between callers:
//   - Callers MUST NOT mutate a returned GmodDto
//   - Sources cache decoded DTOs and hand the same pointer to every caller
//     within the cache TTL
//
// # Thread Safety
//
// All Source implementations are safe for concurrent use. The directory
// source runs a background watcher goroutine; call Close to stop it.
//
// # Lifecycle
//
// The embedded source has no lifecycle; create it and share it freely.
// A directory source owns a filesystem watcher:
//  1. Create with Dir(path)
//  2. Serve Gmod() calls
//  3. Call Close() when done
package resource

import "errors"

// Sentinel errors for record loading.
var (
	// ErrResourceNotFound is returned when no payload exists for the
	// requested schema version.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrResourceRead is returned when a payload exists but cannot be
	// read or decompressed.
	ErrResourceRead = errors.New("resource read failed")

	// ErrResourceDecode is returned when a payload decompresses but does
	// not deserialize into a valid definition structure.
	ErrResourceDecode = errors.New("resource decode failed")
)
