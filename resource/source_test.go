// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resource

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// gzipJSON marshals v and compresses it the way payload files are stored.
func gzipJSON(t *testing.T, v any) []byte {
	t.Helper()

	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("compress payload: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	return buf.Bytes()
}

// rawDto returns an unfiltered definition containing placeholder rows.
func rawDto() *GmodDto {
	return &GmodDto{
		VisRelease: "3-4a",
		Items: []GmodNodeDto{
			{Category: "ASSET", Type: "TYPE", Code: "VE"},
			{Category: "ASSET FUNCTION", Type: "LEAF", Code: "411.1"},
			{Category: "PRODUCT", Type: "TYPE", Code: "C101"},
			{Category: "PRODUCT", Type: "TYPE", Code: "C10199"},
			{Category: "ASSET FUNCTION", Type: "LEAF", Code: "G399"},
		},
		Relations: [][]string{
			{"VE", "411.1"},
			{"411.1", "C101"},
			{"411.1", "C10199"},
			{"G399", "C101"},
			{"VE", "G399"},
		},
	}
}

func TestVersionFromFileName(t *testing.T) {
	tests := []struct {
		name    string
		version string
		ok      bool
	}{
		{"gmod-vis-3-4a.json.gz", "3-4a", true},
		{"gmod-vis-3-8a.json.gz", "3-8a", true},
		{"gmod-vis-.json.gz", "", false},
		{"gmod-vis-3-4a.json", "", false},
		{"codebook-vis-3-4a.json.gz", "", false},
		{"notes.txt", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		version, ok := versionFromFileName(tt.name)
		if ok != tt.ok || version != tt.version {
			t.Errorf("versionFromFileName(%q) = (%q, %v), want (%q, %v)",
				tt.name, version, ok, tt.version, tt.ok)
		}
	}
}

func TestGmodFileName(t *testing.T) {
	if got := gmodFileName("3-6a"); got != "gmod-vis-3-6a.json.gz" {
		t.Errorf("gmodFileName = %q, want gmod-vis-3-6a.json.gz", got)
	}
}

func TestDecodeGmod(t *testing.T) {
	t.Run("decodes and filters placeholder rows", func(t *testing.T) {
		payload := gzipJSON(t, rawDto())

		dto, err := decodeGmod(bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("decodeGmod failed: %v", err)
		}

		if dto.VisRelease != "3-4a" {
			t.Errorf("VisRelease = %q, want 3-4a", dto.VisRelease)
		}
		if len(dto.Items) != 3 {
			t.Fatalf("items = %d, want 3 (placeholders dropped)", len(dto.Items))
		}
		for _, item := range dto.Items {
			if item.Code == "C10199" || item.Code == "G399" {
				t.Errorf("placeholder %q survived the filter", item.Code)
			}
		}

		if len(dto.Relations) != 2 {
			t.Fatalf("relations = %d, want 2", len(dto.Relations))
		}
		for _, rel := range dto.Relations {
			if rel[0] == "C10199" || rel[1] == "C10199" || rel[0] == "G399" || rel[1] == "G399" {
				t.Errorf("relation %v touches a dropped placeholder", rel)
			}
		}
	})

	t.Run("corrupt gzip stream", func(t *testing.T) {
		_, err := decodeGmod(bytes.NewReader([]byte("this is not gzip")))
		if !errors.Is(err, ErrResourceRead) {
			t.Errorf("expected ErrResourceRead, got %v", err)
		}
	})

	t.Run("truncated gzip stream", func(t *testing.T) {
		payload := gzipJSON(t, rawDto())

		_, err := decodeGmod(bytes.NewReader(payload[:len(payload)/2]))
		if !errors.Is(err, ErrResourceRead) {
			t.Errorf("expected ErrResourceRead, got %v", err)
		}
	})

	t.Run("payload is not valid JSON", func(t *testing.T) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		zw.Write([]byte("{not json")) //nolint:errcheck
		zw.Close()                    //nolint:errcheck

		_, err := decodeGmod(bytes.NewReader(buf.Bytes()))
		if !errors.Is(err, ErrResourceDecode) {
			t.Errorf("expected ErrResourceDecode, got %v", err)
		}
	})
}

func TestFilterGmod(t *testing.T) {
	t.Run("drops placeholder items and their relations", func(t *testing.T) {
		dto := rawDto()
		filterGmod(dto)

		if len(dto.Items) != 3 {
			t.Errorf("items = %d, want 3", len(dto.Items))
		}
		if len(dto.Relations) != 2 {
			t.Errorf("relations = %d, want 2", len(dto.Relations))
		}
	})

	t.Run("relation dropped when either end is a placeholder", func(t *testing.T) {
		dto := &GmodDto{
			VisRelease: "3-4a",
			Items: []GmodNodeDto{
				{Category: "ASSET", Type: "TYPE", Code: "VE"},
				{Category: "ASSET FUNCTION", Type: "GROUP", Code: "400a"},
			},
			Relations: [][]string{
				{"C10199", "400a"},
				{"400a", "C10199"},
				{"VE", "400a"},
			},
		}
		filterGmod(dto)

		if len(dto.Relations) != 1 {
			t.Fatalf("relations = %d, want 1", len(dto.Relations))
		}
		if dto.Relations[0][0] != "VE" || dto.Relations[0][1] != "400a" {
			t.Errorf("surviving relation = %v, want [VE 400a]", dto.Relations[0])
		}
	})

	t.Run("clean definition passes through unchanged", func(t *testing.T) {
		dto := &GmodDto{
			VisRelease: "3-8a",
			Items: []GmodNodeDto{
				{Category: "ASSET", Type: "TYPE", Code: "VE"},
				{Category: "ASSET FUNCTION", Type: "GROUP", Code: "400a"},
			},
			Relations: [][]string{{"VE", "400a"}},
		}
		filterGmod(dto)

		if len(dto.Items) != 2 || len(dto.Relations) != 1 {
			t.Errorf("clean definition was modified: %d items, %d relations",
				len(dto.Items), len(dto.Relations))
		}
	})
}
