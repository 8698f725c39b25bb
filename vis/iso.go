// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package vis

// IsISOString reports whether every character of s is allowed in an ISO
// identifier: digits, ASCII letters, and "-", ".", "_", "~".
//
// Callers use this to validate node codes and location qualifiers before
// embedding them in identifier strings. The empty string is valid.
func IsISOString(s string) bool {
	for i := 0; i < len(s); i++ {
		// Any byte of a multi-byte UTF-8 sequence is >= 0x80 and fails.
		if !MatchASCIIDecimal(rune(s[i])) {
			return false
		}
	}
	return true
}

// MatchASCIIDecimal reports whether a single character is allowed in an ISO
// identifier.
func MatchASCIIDecimal(code rune) bool {
	switch {
	case code >= '0' && code <= '9':
		return true
	case code >= 'A' && code <= 'Z':
		return true
	case code >= 'a' && code <= 'z':
		return true
	}
	return code == '-' || code == '.' || code == '_' || code == '~'
}
