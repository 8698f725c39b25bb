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
	"container/list"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/AleutianAI/AleutianVIS/gmod"
)

// buildFunc builds the taxonomy for one version on a cache miss.
type buildFunc func(ctx context.Context, version gmod.VisVersion) (*gmod.Gmod, error)

// cacheEntry is one cached taxonomy.
type cacheEntry struct {
	version gmod.VisVersion
	gmod    *gmod.Gmod

	// buildID correlates log lines and spans of one construction.
	buildID string

	builtAt    time.Time
	lruElement *list.Element
}

// CacheStats reports registry cache statistics.
//
// Counter fields are read with atomics and are approximate under
// concurrency.
type CacheStats struct {
	// EntryCount is the number of currently cached taxonomies.
	EntryCount int

	// Hits is the total number of cache hits.
	Hits int64

	// Misses is the total number of cache misses, expiries included.
	Misses int64

	// Evictions is the total number of capacity evictions.
	Evictions int64

	// Builds is the total number of completed builds.
	Builds int64

	// Errors is the total number of failed builds.
	Errors int64

	// MaxVersions is the configured capacity.
	MaxVersions int

	// TTL is the configured entry time-to-live.
	TTL time.Duration
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0.0
	}
	return float64(s.Hits) / float64(total)
}

// gmodCache is a small LRU cache of built taxonomies with TTL expiry and
// single-flight construction per version.
//
// Thread Safety: safe for concurrent use. The RWMutex guards the entry map
// and LRU list; stats counters are atomics.
type gmodCache struct {
	mu      sync.RWMutex
	entries map[gmod.VisVersion]*cacheEntry
	lru     *list.List
	flight  singleflight.Group

	maxVersions int
	ttl         time.Duration
	logger      *slog.Logger

	// Stats
	hits      int64
	misses    int64
	evictions int64
	builds    int64
	errors    int64
}

func newGmodCache(maxVersions int, ttl time.Duration, logger *slog.Logger) *gmodCache {
	return &gmodCache{
		entries:     make(map[gmod.VisVersion]*cacheEntry),
		lru:         list.New(),
		maxVersions: maxVersions,
		ttl:         ttl,
		logger:      logger,
	}
}

// get returns the cached taxonomy for a version.
//
// An expired entry counts as a miss; it is removed so the next build can
// take its slot.
func (c *gmodCache) get(version gmod.VisVersion) (*gmod.Gmod, bool) {
	c.mu.RLock()
	entry, ok := c.entries[version]
	if !ok {
		c.mu.RUnlock()
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	if c.isExpired(entry) {
		c.mu.RUnlock()
		c.removeExpired(version)
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	g := entry.gmod
	c.mu.RUnlock()

	// LRU update needs the write lock, taken separately.
	c.updateLRU(entry)

	atomic.AddInt64(&c.hits, 1)
	return g, true
}

// getOrBuild returns the cached taxonomy or builds it exactly once.
//
// Concurrent callers for the same missing version share one in-flight
// build. Waiters honor their own context; the build itself runs on the
// initiating caller's context. Errors are never cached, so the next call
// attempts a fresh build.
func (c *gmodCache) getOrBuild(ctx context.Context, version gmod.VisVersion, build buildFunc) (*gmod.Gmod, error) {
	ch := c.flight.DoChan(version.String(), func() (interface{}, error) {
		return c.buildAndCache(ctx, version, build)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*gmod.Gmod), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// buildAndCache builds a taxonomy and stores it under a fresh expiry.
func (c *gmodCache) buildAndCache(ctx context.Context, version gmod.VisVersion, build buildFunc) (*gmod.Gmod, error) {
	g, err := build(ctx, version)
	if err != nil {
		atomic.AddInt64(&c.errors, 1)
		return nil, err
	}

	entry := &cacheEntry{
		version: version,
		gmod:    g,
		buildID: uuid.NewString(),
		builtAt: time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another flight may have cached this version while we built.
	if existing, ok := c.entries[version]; ok {
		if !c.isExpired(existing) {
			return existing.gmod, nil
		}
		c.removeEntryLocked(version, existing)
	}

	c.evictIfNeeded()

	entry.lruElement = c.lru.PushFront(version)
	c.entries[version] = entry
	atomic.AddInt64(&c.builds, 1)

	c.logger.Debug("cached gmod",
		"version", version.String(),
		"build_id", entry.buildID,
		"nodes", g.Len())

	return g, nil
}

// invalidate drops the entry for a version, if present.
func (c *gmodCache) invalidate(version gmod.VisVersion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[version]; ok {
		c.removeEntryLocked(version, entry)
	}
}

// clear drops every entry.
func (c *gmodCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for version, entry := range c.entries {
		c.removeEntryLocked(version, entry)
	}
}

// stats returns a snapshot of the cache statistics.
func (c *gmodCache) stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CacheStats{
		EntryCount:  len(c.entries),
		Hits:        atomic.LoadInt64(&c.hits),
		Misses:      atomic.LoadInt64(&c.misses),
		Evictions:   atomic.LoadInt64(&c.evictions),
		Builds:      atomic.LoadInt64(&c.builds),
		Errors:      atomic.LoadInt64(&c.errors),
		MaxVersions: c.maxVersions,
		TTL:         c.ttl,
	}
}

// isExpired checks whether an entry has exceeded the TTL. Entry fields are
// immutable after insert, so no lock is required.
func (c *gmodCache) isExpired(entry *cacheEntry) bool {
	if c.ttl == 0 {
		return false
	}
	return time.Since(entry.builtAt) > c.ttl
}

// updateLRU moves an entry to the front of the LRU list.
func (c *gmodCache) updateLRU(entry *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry.lruElement != nil {
		c.lru.MoveToFront(entry.lruElement)
	}
}

// removeExpired removes an entry that was observed expired. The entry is
// re-checked under the write lock: a concurrent flight may have replaced it
// with a fresh build, which must survive.
func (c *gmodCache) removeExpired(version gmod.VisVersion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[version]
	if !ok || !c.isExpired(entry) {
		return
	}

	c.removeEntryLocked(version, entry)
	c.logger.Debug("expired gmod entry removed",
		"version", version.String(),
		"build_id", entry.buildID)
}

// removeEntryLocked removes an entry (must hold write lock).
func (c *gmodCache) removeEntryLocked(version gmod.VisVersion, entry *cacheEntry) {
	if entry.lruElement != nil {
		c.lru.Remove(entry.lruElement)
	}
	delete(c.entries, version)
}

// evictIfNeeded evicts LRU entries until the cache is under capacity.
// Caller must hold the write lock.
func (c *gmodCache) evictIfNeeded() {
	for len(c.entries) >= c.maxVersions {
		if !c.evictLRUEntry() {
			break
		}
	}
}

// evictLRUEntry evicts the least recently used entry. Returns false when
// the cache is empty. Caller must hold the write lock.
func (c *gmodCache) evictLRUEntry() bool {
	back := c.lru.Back()
	if back == nil {
		return false
	}

	version := back.Value.(gmod.VisVersion)
	entry := c.entries[version]
	if entry == nil {
		c.lru.Remove(back)
		return true
	}

	c.removeEntryLocked(version, entry)
	atomic.AddInt64(&c.evictions, 1)
	recordCacheEviction(context.Background())

	c.logger.Debug("evicted gmod entry",
		"version", version.String(),
		"build_id", entry.buildID)

	return true
}
