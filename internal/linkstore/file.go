// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package linkstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/linkharvest/ingestion/internal/models"
)

const (
	// DefaultMaxEntries is the rotation ceiling on entry count.
	DefaultMaxEntries = 5000

	// DefaultMaxBytes is the rotation ceiling on serialized size (5 MiB).
	DefaultMaxBytes = 5 * 1024 * 1024
)

// FileStore is a JSON-array link log on the local filesystem.
//
// Cross-process exclusion uses a flock sidecar file; in-process exclusion
// uses a mutex, since flock does not serialize goroutines sharing the same
// descriptor. Every append holds the exclusive lock across the whole
// read-decide-write sequence, and all writes go through a temp-file rename
// so concurrent readers only ever observe a complete file.
type FileStore struct {
	path       string
	maxEntries int
	maxBytes   int64

	flk *flock.Flock
	mu  sync.RWMutex
}

// FileStoreConfig carries file backend settings. Zero ceilings fall back to
// the defaults.
type FileStoreConfig struct {
	Path       string
	MaxEntries int
	MaxBytes   int64
}

// NewFileStore creates a file-backed link store.
func NewFileStore(cfg FileStoreConfig) *FileStore {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	return &FileStore{
		path:       cfg.Path,
		maxEntries: cfg.MaxEntries,
		maxBytes:   cfg.MaxBytes,
		flk:        flock.New(cfg.Path + ".lock"),
	}
}

// Ensure creates the store file initialized to an empty JSON array if it
// does not exist yet.
func (s *FileStore) Ensure(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flk.Lock(); err != nil {
		slog.Warn("link store lock failed", "path", s.path, "error", err)
		return false
	}
	defer s.flk.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return true
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		slog.Warn("link store mkdir failed", "path", s.path, "error", err)
		return false
	}
	if err := atomicWrite(s.path, []byte("[]\n")); err != nil {
		slog.Warn("link store init failed", "path", s.path, "error", err)
		return false
	}
	return true
}

// AppendLink records one link, deduplicating on the
// (source_url, normalized_url, provider) triple.
func (s *FileStore) AppendLink(ctx context.Context, sourceURL, normalizedURL, provider, originalFilename string) bool {
	_, ok := s.appendOne(ctx, sourceURL, normalizedURL, provider, originalFilename)
	return ok
}

// AppendMany records a batch with per-entry AppendLink semantics.
func (s *FileStore) AppendMany(ctx context.Context, links []models.CanonicalLink) (int, bool) {
	return appendManyVia(ctx, links, func(ctx context.Context, l models.CanonicalLink) (bool, bool) {
		return s.appendOne(ctx, l.RawURL, l.NormalizedURL, string(l.Provider), l.OriginalFilename)
	})
}

// appendOne returns (newly written, success). A dedup hit is
// (false, true) — success without a write.
func (s *FileStore) appendOne(_ context.Context, sourceURL, normalizedURL, provider, originalFilename string) (bool, bool) {
	if !validAbsoluteURL(sourceURL) || !validAbsoluteURL(normalizedURL) {
		slog.Warn("rejecting link with invalid URL",
			"source_url", sourceURL,
			"normalized_url", normalizedURL,
		)
		return false, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flk.Lock(); err != nil {
		slog.Warn("link store lock failed", "path", s.path, "error", err)
		return false, false
	}
	defer s.flk.Unlock()

	entries, err := s.readEntries()
	if err != nil {
		slog.Warn("link store read failed", "path", s.path, "error", err)
		return false, false
	}

	// Most-recent-first dedup scan — repeats usually arrive back to back.
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].matchesKey(sourceURL, normalizedURL, provider) {
			return false, true
		}
	}

	entry := Entry{
		SourceURL:        sourceURL,
		R2URL:            normalizedURL,
		Provider:         provider,
		CreatedAt:        time.Now().UTC().Format(time.RFC3339),
		OriginalFilename: originalFilename,
	}
	updated := append(entries, entry)

	data, err := json.MarshalIndent(updated, "", "  ")
	if err != nil {
		slog.Warn("link store marshal failed", "error", err)
		return false, false
	}

	if len(updated) > s.maxEntries || int64(len(data)) > s.maxBytes {
		if err := s.rotate(entry); err != nil {
			slog.Warn("link store rotation failed", "path", s.path, "error", err)
			return false, false
		}
		slog.Info("link store rotated",
			"path", s.path,
			"entries_archived", len(entries),
		)
		return true, true
	}

	if err := atomicWrite(s.path, data); err != nil {
		slog.Warn("link store write failed", "path", s.path, "error", err)
		return false, false
	}
	return true, true
}

// rotate moves the live file to a timestamped backup and starts a fresh
// store holding only the new entry. Both steps are renames, so a concurrent
// reader sees either the full pre-rotation file or the fresh one — never a
// truncated in-between state.
func (s *FileStore) rotate(newEntry Entry) error {
	backup := backupName(s.path, time.Now().UTC())
	if err := os.Rename(s.path, backup); err != nil {
		return fmt.Errorf("rename to backup: %w", err)
	}

	data, err := json.MarshalIndent([]Entry{newEntry}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fresh store: %w", err)
	}
	if err := atomicWrite(s.path, data); err != nil {
		return fmt.Errorf("write fresh store: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first, under a shared lock.
func (s *FileStore) Recent(ctx context.Context, limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.flk.RLock(); err != nil {
		slog.Warn("link store read lock failed", "path", s.path, "error", err)
		return nil
	}
	defer s.flk.Unlock()

	entries, err := s.readEntries()
	if err != nil {
		slog.Warn("link store read failed", "path", s.path, "error", err)
		return nil
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp().After(entries[j].Timestamp())
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// readEntries loads and decodes the live file. A missing or empty file is
// an empty store, not an error.
func (s *FileStore) readEntries() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode link store: %w", err)
	}
	return entries, nil
}

// atomicWrite writes data to path via a temp file + rename in the same
// directory.
func atomicWrite(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// backupName derives the timestamped rotation target for a store path:
// links.json -> links-20260302T104500Z.json.
func backupName(path string, now time.Time) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return fmt.Sprintf("%s-%s%s", base, now.Format("20060102T150405Z"), ext)
}
