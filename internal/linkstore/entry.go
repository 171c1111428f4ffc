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
	"strings"
	"time"
)

// Entry is one persisted link record.
//
// Two shapes coexist in a store file: the current shape
// {source_url, r2_url, provider, created_at, original_filename?} and the
// legacy shape {url, timestamp, source} written before the schema change.
// Readers must tolerate both in the same file.
type Entry struct {
	SourceURL        string `json:"source_url,omitempty"`
	R2URL            string `json:"r2_url,omitempty"`
	Provider         string `json:"provider,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
	OriginalFilename string `json:"original_filename,omitempty"`

	// Legacy single-URL record fields.
	LegacyURL       string `json:"url,omitempty"`
	LegacyTimestamp string `json:"timestamp,omitempty"`
	LegacySource    string `json:"source,omitempty"`
}

// Source returns the URL as originally found.
func (e Entry) Source() string {
	if e.SourceURL != "" {
		return e.SourceURL
	}
	return e.LegacyURL
}

// Normalized returns the canonical URL (stored as r2_url in the current
// shape; legacy records carried a single URL for both roles).
func (e Entry) Normalized() string {
	if e.R2URL != "" {
		return e.R2URL
	}
	return e.LegacyURL
}

// ProviderName returns the provider tag for either shape.
func (e Entry) ProviderName() string {
	if e.Provider != "" {
		return e.Provider
	}
	return e.LegacySource
}

// Timestamp parses the entry's creation time. The zero time is returned
// for unparseable values so unparsable legacy records sort last.
func (e Entry) Timestamp() time.Time {
	for _, raw := range []string{e.CreatedAt, e.LegacyTimestamp} {
		if raw == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// matchesKey reports whether the entry carries the given dedup triple.
func (e Entry) matchesKey(sourceURL, normalizedURL, provider string) bool {
	return strings.EqualFold(e.ProviderName(), provider) &&
		e.Source() == sourceURL &&
		e.Normalized() == normalizedURL
}
