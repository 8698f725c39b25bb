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

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AleutianAI/AleutianVIS/gmod"
	"github.com/AleutianAI/AleutianVIS/resource"
)

// Default configuration values.
const (
	// DefaultMaxVersions is the default number of taxonomies kept in the
	// cache. Each instance holds thousands of nodes, and a process rarely
	// works with more than two releases at once.
	DefaultMaxVersions = 2

	// DefaultTTL is the default time-to-live for a cached taxonomy.
	DefaultTTL = 1 * time.Hour
)

// Options configures a registry.
type Options struct {
	// MaxVersions is the cache capacity in taxonomies.
	// Default: DefaultMaxVersions
	MaxVersions int

	// TTL is how long a cached taxonomy stays live. Zero disables expiry.
	// Default: DefaultTTL
	TTL time.Duration

	// Source supplies taxonomy definitions per version.
	// Default: resource.Embedded()
	Source resource.Source

	// Logger receives registry diagnostics.
	// Default: slog.Default()
	Logger *slog.Logger
}

// DefaultOptions returns the default registry configuration.
func DefaultOptions() Options {
	return Options{
		MaxVersions: DefaultMaxVersions,
		TTL:         DefaultTTL,
		Source:      resource.Embedded(),
		Logger:      slog.Default(),
	}
}

// Option is a functional option for NewVis.
type Option func(*Options)

// WithCacheSize sets the cache capacity in taxonomies. Non-positive values
// are ignored.
func WithCacheSize(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.MaxVersions = n
		}
	}
}

// WithCacheTTL sets the cached-taxonomy time-to-live. Negative values are
// ignored; zero disables expiry.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *Options) {
		if ttl >= 0 {
			o.TTL = ttl
		}
	}
}

// WithSource sets the record source. Nil is ignored.
func WithSource(source resource.Source) Option {
	return func(o *Options) {
		if source != nil {
			o.Source = source
		}
	}
}

// WithLogger sets the diagnostics logger. Nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// Vis is a registry handing out shared taxonomy instances per schema
// version.
//
// Description:
//
//	GetGmod returns the cached *gmod.Gmod for a version, building it
//	through the record source on a miss. Concurrent requests for the same
//	missing version share one build. Entries expire after the TTL and the
//	least recently used entry is evicted beyond capacity.
//
// Thread Safety: safe for concurrent use by any number of goroutines.
type Vis struct {
	source resource.Source
	cache  *gmodCache
	logger *slog.Logger
}

// Process-wide registry, created lazily by Instance.
var (
	instanceOnce sync.Once
	instance     *Vis
)

// Instance returns the process-wide registry.
//
// The registry is created on first use with the embedded record source and
// default cache settings, lives for the process lifetime, and needs no
// teardown.
func Instance() *Vis {
	instanceOnce.Do(func() {
		instance = NewVis()
	})
	return instance
}

// NewVis creates an isolated registry. Use Instance for normal operation;
// isolated registries serve tests and custom record sources.
func NewVis(opts ...Option) *Vis {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	return &Vis{
		source: options.Source,
		cache:  newGmodCache(options.MaxVersions, options.TTL, options.Logger),
		logger: options.Logger,
	}
}

// GetGmod returns the shared taxonomy for a schema version.
//
// Description:
//
//	The fast path returns a live cache entry without blocking. On a miss
//	or an expired entry the taxonomy is built through the record source;
//	concurrent callers for the same version wait on that one build rather
//	than racing duplicates. A rebuild after expiry is indistinguishable
//	from a cold miss.
//
// Inputs:
//
//	ctx - Honored while waiting on an in-flight build and threaded to the
//	      record source.
//	version - The schema release to load.
//
// Outputs:
//
//	*gmod.Gmod - The shared, immutable taxonomy.
//	error - Wraps gmod.ErrVersionNotRecognized for an unknown release and
//	        ErrResourceLoad when the record source fails. Errors are never
//	        cached; the next call attempts a fresh build.
func (v *Vis) GetGmod(ctx context.Context, version gmod.VisVersion) (*gmod.Gmod, error) {
	ctx, span := startGetSpan(ctx, version.String())
	defer span.End()

	start := time.Now()

	if !version.Valid() {
		return nil, fmt.Errorf("%w: %d is not a known release", gmod.ErrVersionNotRecognized, int(version))
	}

	if g, ok := v.cache.get(version); ok {
		setGetSpanResult(span, true)
		recordCacheHit(ctx)
		recordGetLatency(ctx, time.Since(start), true)
		return g, nil
	}
	recordCacheMiss(ctx)

	g, err := v.cache.getOrBuild(ctx, version, v.build)
	if err != nil {
		return nil, err
	}

	setGetSpanResult(span, false)
	recordGetLatency(ctx, time.Since(start), false)
	return g, nil
}

// GetGmodsMap returns the taxonomy for every known schema release, keyed by
// version. The first failing build aborts the map.
func (v *Vis) GetGmodsMap(ctx context.Context) (map[gmod.VisVersion]*gmod.Gmod, error) {
	versions := gmod.AllVisVersions()
	gmods := make(map[gmod.VisVersion]*gmod.Gmod, len(versions))
	for _, version := range versions {
		g, err := v.GetGmod(ctx, version)
		if err != nil {
			return nil, err
		}
		gmods[version] = g
	}
	return gmods, nil
}

// Versions returns every schema release the registry knows, in ascending
// order.
func (v *Vis) Versions() []gmod.VisVersion {
	return gmod.AllVisVersions()
}

// LatestVersion returns the newest known schema release.
func (v *Vis) LatestVersion() gmod.VisVersion {
	return gmod.LatestVisVersion()
}

// Invalidate drops the cached taxonomy for a version, if present. The next
// GetGmod for that version rebuilds.
func (v *Vis) Invalidate(version gmod.VisVersion) {
	v.cache.invalidate(version)
}

// Clear drops every cached taxonomy.
func (v *Vis) Clear() {
	v.cache.clear()
}

// Stats returns a snapshot of the registry cache statistics.
func (v *Vis) Stats() CacheStats {
	return v.cache.stats()
}

// build loads a definition through the record source and constructs the
// taxonomy. It runs inside the cache's single flight.
func (v *Vis) build(ctx context.Context, version gmod.VisVersion) (*gmod.Gmod, error) {
	dto, err := v.source.Gmod(ctx, version.String())
	if err != nil {
		v.logger.Warn("gmod definition load failed",
			"version", version.String(),
			"error", err)
		return nil, fmt.Errorf("%w: version %s: %w", ErrResourceLoad, version.String(), err)
	}

	g, err := gmod.New(ctx, dto, gmod.WithLogger(v.logger))
	if err != nil {
		return nil, fmt.Errorf("%w: version %s: %w", ErrResourceLoad, version.String(), err)
	}
	return g, nil
}
