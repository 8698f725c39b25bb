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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// gmodFilePrefix and gmodFileSuffix frame the schema version in a payload
// file name, e.g. "gmod-vis-3-8a.json.gz".
const (
	gmodFilePrefix = "gmod-vis-"
	gmodFileSuffix = ".json.gz"
)

// excludeCodeSuffix marks spurious placeholder rows in upstream exports.
// Records carrying such codes, and relations touching them, are dropped
// before the DTO leaves this package.
const excludeCodeSuffix = "99"

// GmodDto is the decoded taxonomy definition for one schema version.
//
// Field names follow the upstream export format. A GmodDto handed out by a
// Source is shared; callers MUST NOT mutate it.
type GmodDto struct {
	// VisRelease is the schema version tag, e.g. "3-8a".
	VisRelease string `json:"visRelease"`

	// Items lists the node records in export order.
	Items []GmodNodeDto `json:"items"`

	// Relations lists (parentCode, childCode) pairs. Every code resolves
	// to an entry in Items once this package has filtered the payload.
	Relations [][]string `json:"relations"`
}

// GmodNodeDto is a single node record in the export format.
type GmodNodeDto struct {
	Category              string            `json:"category"`
	Type                  string            `json:"type"`
	Code                  string            `json:"code"`
	Name                  string            `json:"name,omitempty"`
	CommonName            string            `json:"commonName,omitempty"`
	Definition            string            `json:"definition,omitempty"`
	CommonDefinition      string            `json:"commonDefinition,omitempty"`
	InstallSubstructure   *bool             `json:"installSubstructure,omitempty"`
	NormalAssignmentNames map[string]string `json:"normalAssignmentNames,omitempty"`
}

// Source resolves schema versions to taxonomy definitions.
//
// Description:
//
//	A Source locates, decompresses, and decodes the definition payload for
//	a version string. Implementations pre-filter the payload (placeholder
//	rows removed) so the engine can assume structurally clean input.
//
// Outputs:
//
//	Gmod returns ErrResourceNotFound when the version has no payload,
//	ErrResourceRead when the payload cannot be read or decompressed, and
//	ErrResourceDecode when it does not deserialize.
//
// Thread Safety: implementations are safe for concurrent use.
type Source interface {
	// Gmod returns the definition for the given version string.
	Gmod(ctx context.Context, version string) (*GmodDto, error)

	// Versions lists the version strings this source can serve, in
	// lexical order.
	Versions() []string
}

// gmodFileName returns the payload file name for a version string.
func gmodFileName(version string) string {
	return gmodFilePrefix + version + gmodFileSuffix
}

// versionFromFileName extracts the version from a payload file name.
// Returns false for names outside the gmod payload naming scheme.
func versionFromFileName(name string) (string, bool) {
	if !strings.HasPrefix(name, gmodFilePrefix) || !strings.HasSuffix(name, gmodFileSuffix) {
		return "", false
	}
	version := strings.TrimSuffix(strings.TrimPrefix(name, gmodFilePrefix), gmodFileSuffix)
	if version == "" {
		return "", false
	}
	return version, true
}

// decodeGmod decompresses and deserializes one payload stream, then filters
// placeholder rows.
func decodeGmod(r io.Reader) (*GmodDto, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceRead, err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceRead, err)
	}

	var dto GmodDto
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceDecode, err)
	}

	filterGmod(&dto)
	return &dto, nil
}

// filterGmod drops placeholder node records and any relation touching one.
func filterGmod(dto *GmodDto) {
	items := dto.Items[:0]
	for _, item := range dto.Items {
		if strings.HasSuffix(item.Code, excludeCodeSuffix) {
			continue
		}
		items = append(items, item)
	}
	dto.Items = items

	relations := dto.Relations[:0]
	for _, rel := range dto.Relations {
		if len(rel) == 2 &&
			(strings.HasSuffix(rel[0], excludeCodeSuffix) || strings.HasSuffix(rel[1], excludeCodeSuffix)) {
			continue
		}
		relations = append(relations, rel)
	}
	dto.Relations = relations
}
