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

// Package extract finds delivery-provider share links in free-form content
// and rewrites them into their canonical, directly-downloadable form.
//
// Each provider implements Extractor; adding a provider means adding one
// implementation and one Registry entry. Extraction is pure and does no I/O.
package extract

import (
	"regexp"

	"github.com/linkharvest/ingestion/internal/models"
)

// Match is one URL occurrence found in content.
type Match struct {
	Raw        string
	Normalized string
}

// Extractor finds and normalizes one provider's share links.
type Extractor interface {
	Provider() models.Provider

	// ExtractMatches returns all of the provider's URLs in content, in
	// first-seen order, deduplicated by normalized form.
	ExtractMatches(content string) []Match
}

// Registry lists the supported providers in processing order.
var Registry = []Extractor{
	Dropbox{},
	FromSmash{},
	SwissTransfer{},
}

// ExtractAll returns the normalized URLs an extractor finds in content.
func ExtractAll(e Extractor, content string) []string {
	matches := e.ExtractMatches(content)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, m.Normalized)
	}
	return urls
}

// ProcessAll runs every registered extractor over content and returns the
// union of results in provider order, deduplicated by normalized URL with
// first occurrence winning.
func ProcessAll(content string) []models.CanonicalLink {
	var links []models.CanonicalLink
	seen := make(map[string]bool)

	for _, e := range Registry {
		for _, m := range e.ExtractMatches(content) {
			if seen[m.Normalized] {
				continue
			}
			seen[m.Normalized] = true
			links = append(links, models.CanonicalLink{
				Provider:      e.Provider(),
				RawURL:        m.Raw,
				NormalizedURL: m.Normalized,
			})
		}
	}
	return links
}

// Classify identifies which provider a single URL belongs to and returns its
// normalized form. URLs matching no provider come back as ProviderUnknown,
// unchanged.
func Classify(rawURL string) (models.Provider, string) {
	for _, e := range Registry {
		if matches := e.ExtractMatches(rawURL); len(matches) > 0 {
			return e.Provider(), matches[0].Normalized
		}
	}
	return models.ProviderUnknown, rawURL
}

// findMatches applies a provider pattern to content, normalizes each raw
// match, and dedups by normalized form preserving first-seen order.
func findMatches(re *regexp.Regexp, content string, normalize func(string) string) []Match {
	raws := re.FindAllString(content, -1)
	if len(raws) == 0 {
		return nil
	}

	var out []Match
	seen := make(map[string]bool)
	for _, raw := range raws {
		n := normalize(raw)
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, Match{Raw: raw, Normalized: n})
	}
	return out
}

func identity(s string) string { return s }
