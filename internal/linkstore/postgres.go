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
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linkharvest/ingestion/internal/models"
)

// PGStore is a Postgres-backed link log implementing the same Store
// contract as FileStore. The dedup triple is enforced by a unique
// constraint, so appends are idempotent without an explicit read-check-write
// cycle; rotation does not apply to this backend.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore creates a Postgres link store on the given pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Ensure creates the delivery_links table if absent.
func (s *PGStore) Ensure(ctx context.Context) bool {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS delivery_links (
			id                BIGSERIAL PRIMARY KEY,
			source_url        TEXT NOT NULL,
			r2_url            TEXT NOT NULL,
			provider          TEXT NOT NULL,
			original_filename TEXT DEFAULT '',
			created_at        TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(source_url, r2_url, provider)
		);
		CREATE INDEX IF NOT EXISTS idx_links_created ON delivery_links(created_at);
	`)
	if err != nil {
		slog.Warn("link store schema init failed", "error", err)
		return false
	}
	return true
}

// AppendLink records one link; a dedup hit is success without a write.
func (s *PGStore) AppendLink(ctx context.Context, sourceURL, normalizedURL, provider, originalFilename string) bool {
	_, ok := s.appendOne(ctx, sourceURL, normalizedURL, provider, originalFilename)
	return ok
}

// AppendMany records a batch with per-entry AppendLink semantics.
func (s *PGStore) AppendMany(ctx context.Context, links []models.CanonicalLink) (int, bool) {
	return appendManyVia(ctx, links, func(ctx context.Context, l models.CanonicalLink) (bool, bool) {
		return s.appendOne(ctx, l.RawURL, l.NormalizedURL, string(l.Provider), l.OriginalFilename)
	})
}

func (s *PGStore) appendOne(ctx context.Context, sourceURL, normalizedURL, provider, originalFilename string) (bool, bool) {
	if !validAbsoluteURL(sourceURL) || !validAbsoluteURL(normalizedURL) {
		slog.Warn("rejecting link with invalid URL",
			"source_url", sourceURL,
			"normalized_url", normalizedURL,
		)
		return false, false
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO delivery_links (source_url, r2_url, provider, original_filename)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (source_url, r2_url, provider) DO NOTHING
	`, sourceURL, normalizedURL, provider, originalFilename)
	if err != nil {
		slog.Warn("link store insert failed", "error", err)
		return false, false
	}
	return tag.RowsAffected() > 0, true
}

// Recent returns up to limit entries, newest first.
func (s *PGStore) Recent(ctx context.Context, limit int) []Entry {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, `
		SELECT source_url, r2_url, provider, original_filename, created_at
		FROM delivery_links
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		slog.Warn("link store query failed", "error", err)
		return nil
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt time.Time
		if err := rows.Scan(&e.SourceURL, &e.R2URL, &e.Provider, &e.OriginalFilename, &createdAt); err != nil {
			slog.Warn("link store scan failed", "error", err)
			return nil
		}
		e.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		slog.Warn("link store rows failed", "error", err)
		return nil
	}
	return entries
}
