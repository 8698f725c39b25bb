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
	"log/slog"
	"time"
)

// Default configuration values for sources.
const (
	// DefaultDTOCacheTTL is how long a decoded definition stays cached.
	// Decoding a full taxonomy payload costs tens of milliseconds; the
	// payloads themselves never change within a release.
	DefaultDTOCacheTTL = 1 * time.Hour
)

// SourceOptions configures a Source implementation.
type SourceOptions struct {
	// DTOCacheTTL is the expiry for decoded definitions.
	// Default: DefaultDTOCacheTTL
	DTOCacheTTL time.Duration

	// Logger receives source diagnostics.
	// Default: slog.Default()
	Logger *slog.Logger
}

// DefaultSourceOptions returns the default source configuration.
func DefaultSourceOptions() SourceOptions {
	return SourceOptions{
		DTOCacheTTL: DefaultDTOCacheTTL,
		Logger:      slog.Default(),
	}
}

// SourceOption is a functional option for configuring a Source.
type SourceOption func(*SourceOptions)

// WithDTOCacheTTL sets the decoded-definition cache expiry.
// Non-positive values are ignored.
func WithDTOCacheTTL(ttl time.Duration) SourceOption {
	return func(o *SourceOptions) {
		if ttl > 0 {
			o.DTOCacheTTL = ttl
		}
	}
}

// WithLogger sets the diagnostics logger. Nil is ignored.
func WithLogger(logger *slog.Logger) SourceOption {
	return func(o *SourceOptions) {
		if logger != nil {
			o.Logger = logger
		}
	}
}
