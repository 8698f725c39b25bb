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
	"context"
	"embed"
	"fmt"
	"log/slog"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

//go:embed resources/*.json.gz
var embeddedFS embed.FS

// embeddedDir is the embed root holding the payload files.
const embeddedDir = "resources"

// EmbeddedSource serves the taxonomy payloads compiled into the binary.
//
// Description:
//
//	One gzip-compressed JSON payload is embedded per supported schema
//	version. Decoded definitions are cached with a TTL so repeated loads
//	within a process do not re-decompress the payload.
//
// Thread Safety: safe for concurrent use.
type EmbeddedSource struct {
	versions []string
	dtos     *gocache.Cache
	logger   *slog.Logger
}

// Embedded returns a source over the embedded payloads.
func Embedded(opts ...SourceOption) *EmbeddedSource {
	options := DefaultSourceOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &EmbeddedSource{
		versions: embeddedVersions(),
		dtos:     gocache.New(options.DTOCacheTTL, 2*options.DTOCacheTTL),
		logger:   options.Logger,
	}
}

// Gmod returns the definition for the given version string.
func (s *EmbeddedSource) Gmod(_ context.Context, version string) (*GmodDto, error) {
	if cached, found := s.dtos.Get(version); found {
		return cached.(*GmodDto), nil
	}

	data, err := embeddedFS.ReadFile(embeddedDir + "/" + gmodFileName(version))
	if err != nil {
		return nil, fmt.Errorf("%w: no embedded payload for version %q", ErrResourceNotFound, version)
	}

	start := time.Now()
	dto, err := decodeGmod(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("embedded payload for version %q: %w", version, err)
	}

	s.logger.Debug("decoded embedded gmod payload",
		"version", version,
		"nodes", len(dto.Items),
		"relations", len(dto.Relations),
		"duration", time.Since(start))

	s.dtos.Set(version, dto, gocache.DefaultExpiration)
	return dto, nil
}

// Versions lists the embedded version strings in lexical order.
func (s *EmbeddedSource) Versions() []string {
	out := make([]string, len(s.versions))
	copy(out, s.versions)
	return out
}

// embeddedVersions derives the version list from the embedded file names.
func embeddedVersions() []string {
	entries, err := embeddedFS.ReadDir(embeddedDir)
	if err != nil {
		// The embed directive guarantees the directory exists.
		panic(fmt.Sprintf("resource: embedded payload directory missing: %v", err))
	}

	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if version, ok := versionFromFileName(entry.Name()); ok {
			versions = append(versions, version)
		}
	}
	sort.Strings(versions)
	return versions
}
