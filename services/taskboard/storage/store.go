// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package storage persists the TaskBoard document to a single JSON file.
//
// The file holds the whole `{tasks, users}` document; every mutation
// rewrites it completely. The store keeps an in-memory mirror so reads
// do not hit the disk on every request, and an fsnotify watcher drops
// the mirror whenever the file changes on disk outside the process
// (manual edits, restores from backup).
//
// A mutex serializes load-mutate-save sequences so concurrent writers
// cannot lose each other's updates.
//
// # Thread Safety
//
// All public methods are safe for concurrent use.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/AleutianAI/AleutianTasks/services/taskboard/datatypes"
)

// MaxDocumentSize caps the data file at 16MB. Prevents memory issues
// from a corrupted or hostile file.
const MaxDocumentSize = 16 * 1024 * 1024

// ErrDocumentTooLarge indicates the data file exceeds MaxDocumentSize.
var ErrDocumentTooLarge = errors.New("data file exceeds size limit")

// Store owns the backing JSON file and its in-memory mirror.
//
// Construct with NewStore and inject into every component that needs the
// document. The store is an explicit dependency, not a package-level
// singleton, so tests can run against a temp file.
type Store struct {
	path string

	mu      sync.Mutex
	doc     *datatypes.Document // mirror; nil forces a reread
	onWrite func(error)         // observes every persist attempt

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewStore creates a store for the given data file path. The parent
// directory is created if missing. The file itself is created lazily on
// first Load with the seeded document.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	// Watch the directory, not the file: editors replace files via
	// rename, which silently detaches a file-level watch.
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching data directory %s: %w", dir, err)
	}

	s := &Store{
		path:    path,
		watcher: watcher,
		done:    make(chan struct{}),
	}
	go s.watchLoop()
	return s, nil
}

// Load returns a copy of the current document. If the backing file does
// not exist yet, the seeded document is written and returned.
//
// Failures are fatal for the request being served, never for the
// process: an unreadable file returns a wrapped I/O error, malformed
// content returns a wrapped parse error.
func (s *Store) Load() (*datatypes.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	return s.doc.Clone(), nil
}

// Save overwrites the backing file with the given document.
func (s *Store) Save(doc *datatypes.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(doc)
}

// Mutate runs fn against the live document under the store lock and
// persists the result. If fn returns an error nothing is written and the
// mirror is left untouched. This is the only mutation path repositories
// should use; it makes load-mutate-save a single serialized step.
func (s *Store) Mutate(fn func(doc *datatypes.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(); err != nil {
		return err
	}

	working := s.doc.Clone()
	if err := fn(working); err != nil {
		return err
	}
	return s.saveLocked(working)
}

// SetOnWrite installs an observer invoked with the result of every
// persist attempt. Used to feed write metrics without the storage
// package depending on the metrics registry.
func (s *Store) SetOnWrite(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onWrite = fn
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Close stops the file watcher. The store remains usable for plain
// load/save afterwards, but external changes are no longer detected.
func (s *Store) Close() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	return s.watcher.Close()
}

// ensureLoaded populates the mirror from disk. Caller holds s.mu.
func (s *Store) ensureLoaded() error {
	if s.doc != nil {
		return nil
	}

	info, err := os.Stat(s.path)
	if errors.Is(err, os.ErrNotExist) {
		seeded := SeedDocument()
		if err := s.saveLocked(seeded); err != nil {
			return fmt.Errorf("writing seed document: %w", err)
		}
		slog.Info("created data file with seed users",
			"path", s.path,
			"users", len(seeded.Users))
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat data file %s: %w", s.path, err)
	}
	if info.Size() > MaxDocumentSize {
		return fmt.Errorf("%w: %d bytes", ErrDocumentTooLarge, info.Size())
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading data file %s: %w", s.path, err)
	}

	var doc datatypes.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing data file %s: %w", s.path, err)
	}
	s.doc = &doc
	return nil
}

// saveLocked persists the document and refreshes the mirror. Caller
// holds s.mu.
func (s *Store) saveLocked(doc *datatypes.Document) error {
	err := s.persist(doc)
	if s.onWrite != nil {
		s.onWrite(err)
	}
	if err != nil {
		return err
	}

	// Clone defends against callers mutating the document after Save.
	s.doc = doc.Clone()
	return nil
}

// persist writes the document atomically via temp-file rename.
func (s *Store) persist(doc *datatypes.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".taskboard-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing data file %s: %w", s.path, err)
	}
	return nil
}

// watchLoop drops the in-memory mirror when the data file changes on
// disk. Our own saves also trigger events; invalidating after a save is
// harmless since the next Load rereads identical content.
func (s *Store) watchLoop() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Name != s.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			s.mu.Lock()
			s.doc = nil
			s.mu.Unlock()
			slog.Debug("data file changed on disk, mirror invalidated",
				"path", s.path,
				"op", event.Op.String())
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("data file watcher error", "error", err)
		}
	}
}
