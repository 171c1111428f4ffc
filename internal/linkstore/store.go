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

// Package linkstore persists canonical delivery links. The contract is an
// append-only, deduplicated log: a (source_url, normalized_url, provider)
// triple is written at most once per store lifetime, appends are atomic
// under concurrent writers, and the file backend rotates to a timestamped
// backup once a size or entry-count ceiling is exceeded.
//
// All failures surface as boolean/zero results — a logging failure must
// never abort the webhook response that triggered it.
package linkstore

import (
	"context"
	"net/url"

	"github.com/linkharvest/ingestion/internal/models"
)

// Store is the durable link log contract. Two backends implement it: a
// locked JSON file (FileStore) and Postgres (PGStore).
type Store interface {
	// Ensure creates the underlying store if absent. Idempotent.
	Ensure(ctx context.Context) bool

	// AppendLink records one link. Returns true on success, including the
	// idempotent case where the dedup triple is already present. Invalid
	// URLs and I/O failures return false.
	AppendLink(ctx context.Context, sourceURL, normalizedURL, provider, originalFilename string) bool

	// AppendMany records a batch, returning how many entries were actually
	// newly written and whether every append succeeded.
	AppendMany(ctx context.Context, links []models.CanonicalLink) (written int, ok bool)

	// Recent returns up to limit entries, most recent first.
	Recent(ctx context.Context, limit int) []Entry
}

// validAbsoluteURL reports whether s parses as an absolute URL with a host.
func validAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// appendManyVia implements AppendMany in terms of a per-entry append shared
// by both backends.
func appendManyVia(ctx context.Context, links []models.CanonicalLink,
	appendOne func(context.Context, models.CanonicalLink) (bool, bool)) (int, bool) {

	written := 0
	ok := true
	for _, l := range links {
		w, success := appendOne(ctx, l)
		if !success {
			ok = false
			continue
		}
		if w {
			written++
		}
	}
	return written, ok
}
