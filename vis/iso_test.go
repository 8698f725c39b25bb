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

import "testing"

func TestIsISOString(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"VE", true},
		{"400a", true},
		{"411.1", true},
		{"C101.663", true},
		{"651.21s", true},
		{"abc-DEF_123.~", true},
		{"411 1", false},
		{"411/1", false},
		{"✅", false},
		{"a✅b", false},
		{"ac✅bc", false},
		{"✅bc", false},
		{"a✅", false},
		{"ag✅", false},
		{"é", false},
	}

	for _, tt := range tests {
		if got := IsISOString(tt.input); got != tt.want {
			t.Errorf("IsISOString(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestMatchASCIIDecimal(t *testing.T) {
	allowed := []rune{'0', '5', '9', 'A', 'M', 'Z', 'a', 'm', 'z', '-', '.', '_', '~'}
	for _, r := range allowed {
		if !MatchASCIIDecimal(r) {
			t.Errorf("MatchASCIIDecimal(%q) = false, want true", r)
		}
	}

	rejected := []rune{' ', '/', '+', ':', '@', '[', '`', '{', '✅', 'é', 0x7f}
	for _, r := range rejected {
		if MatchASCIIDecimal(r) {
			t.Errorf("MatchASCIIDecimal(%q) = true, want false", r)
		}
	}
}
