// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gmod

import "fmt"

// VisVersion identifies a schema release of the taxonomy.
type VisVersion int

const (
	// VisVersionUnknown indicates an unparsed or invalid version.
	VisVersionUnknown VisVersion = iota

	// VisVersion3_4a is schema release 3-4a.
	VisVersion3_4a

	// VisVersion3_5a is schema release 3-5a.
	VisVersion3_5a

	// VisVersion3_6a is schema release 3-6a.
	VisVersion3_6a

	// VisVersion3_7a is schema release 3-7a.
	VisVersion3_7a

	// VisVersion3_8a is schema release 3-8a.
	VisVersion3_8a
)

// Valid reports whether v is a known schema release.
func (v VisVersion) Valid() bool {
	return v > VisVersionUnknown && v <= LatestVisVersion()
}

// String returns the release tag, e.g. "3-4a".
func (v VisVersion) String() string {
	switch v {
	case VisVersion3_4a:
		return "3-4a"
	case VisVersion3_5a:
		return "3-5a"
	case VisVersion3_6a:
		return "3-6a"
	case VisVersion3_7a:
		return "3-7a"
	case VisVersion3_8a:
		return "3-8a"
	default:
		return "unknown"
	}
}

// ParseVisVersion parses a release tag such as "3-6a".
func ParseVisVersion(s string) (VisVersion, error) {
	for _, v := range AllVisVersions() {
		if v.String() == s {
			return v, nil
		}
	}
	return VisVersionUnknown, fmt.Errorf("%w: %q", ErrVersionNotRecognized, s)
}

// AllVisVersions returns every known release in ascending order.
func AllVisVersions() []VisVersion {
	return []VisVersion{
		VisVersion3_4a,
		VisVersion3_5a,
		VisVersion3_6a,
		VisVersion3_7a,
		VisVersion3_8a,
	}
}

// LatestVisVersion returns the newest known release.
func LatestVisVersion() VisVersion {
	all := AllVisVersions()
	return all[len(all)-1]
}
