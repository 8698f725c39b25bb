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
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	gocache "github.com/patrickmn/go-cache"
)

// DirSource serves taxonomy payloads from a directory on disk.
//
// Description:
//
//	Reads the same gmod-vis-<version>.json.gz files the embedded source
//	carries, but from an arbitrary directory. Intended for development
//	against unreleased taxonomy exports. A filesystem watcher invalidates
//	the decoded-definition cache when a payload file changes, so edits are
//	picked up without restarting the process.
//
// # Behavior
//
// Watcher setup is best effort: if the watcher cannot be created or the
// directory cannot be added to it, the source still works but serves
// possibly stale cached definitions until the TTL expires. A warning is
// logged in that case.
//
// Thread Safety: safe for concurrent use. Close stops the watcher goroutine.
type DirSource struct {
	dir     string
	dtos    *gocache.Cache
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	done      chan struct{}
	closeOnce sync.Once
}

// Dir returns a source over payload files in the given directory.
func Dir(dir string, opts ...SourceOption) *DirSource {
	options := DefaultSourceOptions()
	for _, opt := range opts {
		opt(&options)
	}

	s := &DirSource{
		dir:    dir,
		dtos:   gocache.New(options.DTOCacheTTL, 2*options.DTOCacheTTL),
		logger: options.Logger,
		done:   make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Warn("payload watcher unavailable, cached definitions may go stale",
			"dir", dir, "error", err)
		return s
	}
	if err := watcher.Add(dir); err != nil {
		s.logger.Warn("payload directory not watchable, cached definitions may go stale",
			"dir", dir, "error", err)
		watcher.Close()
		return s
	}

	s.watcher = watcher
	go s.watchLoop()

	s.logger.Info("watching payload directory", "dir", dir)
	return s
}

// Gmod returns the definition for the given version string.
func (s *DirSource) Gmod(_ context.Context, version string) (*GmodDto, error) {
	if cached, found := s.dtos.Get(version); found {
		return cached.(*GmodDto), nil
	}

	path := filepath.Join(s.dir, gmodFileName(version))
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no payload for version %q in %s", ErrResourceNotFound, version, s.dir)
		}
		return nil, fmt.Errorf("%w: %v", ErrResourceRead, err)
	}
	defer f.Close()

	start := time.Now()
	dto, err := decodeGmod(f)
	if err != nil {
		return nil, fmt.Errorf("payload %s: %w", path, err)
	}

	s.logger.Debug("decoded gmod payload",
		"path", path,
		"nodes", len(dto.Items),
		"relations", len(dto.Relations),
		"duration", time.Since(start))

	s.dtos.Set(version, dto, gocache.DefaultExpiration)
	return dto, nil
}

// Versions lists the version strings present in the directory, in lexical
// order. Unreadable directories yield an empty list.
func (s *DirSource) Versions() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}

	versions := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if version, ok := versionFromFileName(entry.Name()); ok {
			versions = append(versions, version)
		}
	}
	sort.Strings(versions)
	return versions
}

// Close stops the filesystem watcher. Safe to call more than once.
func (s *DirSource) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.watcher != nil {
			s.watcher.Close()
		}
	})
}

// watchLoop invalidates cached definitions when their payload file changes.
func (s *DirSource) watchLoop() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			version, ok := versionFromFileName(filepath.Base(event.Name))
			if !ok {
				continue
			}
			s.dtos.Delete(version)
			s.logger.Info("invalidated cached definition",
				"version", version, "op", event.Op.String())
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("payload watcher error", "dir", s.dir, "error", err)
		}
	}
}
