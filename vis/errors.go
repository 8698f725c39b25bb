// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package vis hands out shared, immutable taxonomy instances per schema
// version.
//
// The registry fronts a small LRU cache with per-version single-flight
// construction: concurrent requests for an uncached version block on one
// build instead of racing duplicates. Entries expire after a TTL and are
// rebuilt on next access; to the caller a rebuild is indistinguishable from
// a cold miss.
//
// # Ownership Model
//
// The registry owns its cache entries. The *gmod.Gmod instances it returns
// are immutable and shared by every caller of the same version; Go's
// garbage collector reclaims an instance once the cache has dropped it and
// the last caller lets go of the pointer. There is nothing to release.
//
// # Thread Safety
//
// A Vis is safe for concurrent use by any number of goroutines.
//
// # Lifecycle
//
// Use the process-wide Instance() for normal operation; it is created
// lazily on first use and needs no teardown. NewVis creates isolated
// registries for tests or custom record sources.
package vis

import "errors"

// Sentinel errors for registry operations.
var (
	// ErrResourceLoad is returned when the record source cannot supply or
	// parse a definition for a version. The underlying cause is wrapped.
	ErrResourceLoad = errors.New("resource load failed")
)
