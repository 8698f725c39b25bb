// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gmod implements the generic product model, a versioned hierarchical
// taxonomy describing the functional and physical decomposition of a vessel.
//
// A Gmod is a rooted directed graph of coded nodes. It is generally not a
// tree: a node may hang under several parents (diamond shapes are expected
// and valid). Nodes live in a single arena slice; adjacency is kept as index
// lists into that slice, so the whole structure is one immutable block that
// can be shared across goroutines by pointer.
//
// # Ownership Model
//
// The Gmod owns its node arena:
//   - *GmodNode values handed out by lookups, adjacency queries, and
//     traversal point into the arena and MUST NOT be mutated
//   - WithLocation and WithoutLocation return value copies; the arena
//     originals never change
//
// # Thread Safety
//
// A Gmod is immutable after New returns and is safe for unlimited concurrent
// readers. Traversals allocate their own path-tracking state per call and
// never synchronize.
//
// # Lifecycle
//
//  1. Obtain a definition from a resource.Source
//  2. Build with New()
//  3. Query with RootNode(), Node(), Parents(), Children(), traversal
//  4. Drop the pointer; there is no teardown
package gmod

import "errors"

// Sentinel errors for taxonomy operations.
var (
	// ErrVersionNotRecognized is returned when a version string does not
	// match any known schema release.
	ErrVersionNotRecognized = errors.New("vis version not recognized")

	// ErrNodeNotFound is returned when a path references a code that does
	// not exist in the taxonomy.
	ErrNodeNotFound = errors.New("node not found")

	// ErrInvalidPath is returned when a path string is malformed or its
	// nodes do not form a parent-to-child chain from the root.
	ErrInvalidPath = errors.New("invalid gmod path")
)
