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

package extract

import (
	"reflect"
	"strings"
	"testing"

	"github.com/linkharvest/ingestion/internal/models"
)

// TestDropboxNormalization verifies the dl=1 rewriting rules.
func TestDropboxNormalization(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "dl=0 as only parameter",
			content: "voir https://www.dropbox.com/s/x?dl=0 merci",
			want:    []string{"https://www.dropbox.com/s/x?dl=1"},
		},
		{
			name:    "dl=0 after other parameters",
			content: "https://www.dropbox.com/s/x?p=v&dl=0",
			want:    []string{"https://www.dropbox.com/s/x?p=v&dl=1"},
		},
		{
			name:    "no query at all",
			content: "https://www.dropbox.com/s/x",
			want:    []string{"https://www.dropbox.com/s/x?dl=1"},
		},
		{
			name:    "existing parameters, no dl",
			content: "https://www.dropbox.com/s/x?p=v",
			want:    []string{"https://www.dropbox.com/s/x?p=v&dl=1"},
		},
		{
			name:    "already dl=1",
			content: "https://www.dropbox.com/s/x?dl=1",
			want:    []string{"https://www.dropbox.com/s/x?dl=1"},
		},
		{
			name:    "html entity ampersand",
			content: `https://www.dropbox.com/s/x?p=v&amp;dl=0`,
			want:    []string{"https://www.dropbox.com/s/x?p=v&dl=1"},
		},
		{
			name:    "two distinct urls keep order",
			content: "https://www.dropbox.com/s/a?dl=0 puis https://www.dropbox.com/s/b",
			want: []string{
				"https://www.dropbox.com/s/a?dl=1",
				"https://www.dropbox.com/s/b?dl=1",
			},
		},
		{
			name:    "duplicates collapse to first occurrence",
			content: "https://www.dropbox.com/s/a?dl=0 et https://www.dropbox.com/s/a?dl=1",
			want:    []string{"https://www.dropbox.com/s/a?dl=1"},
		},
		{
			name:    "no match",
			content: "rien ici",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAll(Dropbox{}, tt.content)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractAll = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestHTMLTermination verifies that URLs embedded in markup never keep a
// trailing quote or angle bracket, for any provider.
func TestHTMLTermination(t *testing.T) {
	content := `<a href="https://www.dropbox.com/s/x?dl=0">fichier</a>` +
		` <a href="https://fromsmash.com/OPhYnnPgFM-ct">smash</a>` +
		` <a href="https://www.swisstransfer.com/d/abc-123-def">swiss</a>`

	for _, e := range Registry {
		urls := ExtractAll(e, content)
		if len(urls) != 1 {
			t.Fatalf("%s: got %d urls, want 1", e.Provider(), len(urls))
		}
		for _, bad := range []string{`"`, "<", ">"} {
			if strings.Contains(urls[0], bad) {
				t.Errorf("%s: extracted URL %q contains %q", e.Provider(), urls[0], bad)
			}
		}
	}
}

// TestFromSmashExtraction verifies FromSmash patterns.
func TestFromSmashExtraction(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "plain token",
			content: "...https://fromsmash.com/OPhYnnPgFM-ct...",
			want:    []string{"https://fromsmash.com/OPhYnnPgFM-ct"},
		},
		{
			name:    "www variant",
			content: "https://www.fromsmash.com/Abc_123",
			want:    []string{"https://www.fromsmash.com/Abc_123"},
		},
		{
			name:    "case-insensitive host",
			content: "HTTPS://FROMSMASH.COM/token",
			want:    []string{"HTTPS://FROMSMASH.COM/token"},
		},
		{
			name:    "exact duplicates collapse",
			content: "https://fromsmash.com/x https://fromsmash.com/x",
			want:    []string{"https://fromsmash.com/x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractAll(FromSmash{}, tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractAll = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestSwissTransferExtraction verifies SwissTransfer patterns.
func TestSwissTransferExtraction(t *testing.T) {
	content := "lien https://www.swisstransfer.com/d/11112222-3333-4444 ici"
	got := ExtractAll(SwissTransfer{}, content)
	want := []string{"https://www.swisstransfer.com/d/11112222-3333-4444"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractAll = %v, want %v", got, want)
	}

	if got := ExtractAll(SwissTransfer{}, "https://swisstransfer.com/d/x"); got != nil {
		t.Errorf("non-www SwissTransfer URL should not match, got %v", got)
	}
}

// TestProcessAll verifies provider ordering and cross-provider dedup.
func TestProcessAll(t *testing.T) {
	content := "https://fromsmash.com/first puis https://www.dropbox.com/s/x?dl=0 " +
		"et https://www.swisstransfer.com/d/tok-1 et encore https://fromsmash.com/first"

	links := ProcessAll(content)
	if len(links) != 3 {
		t.Fatalf("got %d links, want 3", len(links))
	}

	// Provider order: dropbox, fromsmash, swisstransfer.
	wantProviders := []models.Provider{
		models.ProviderDropbox,
		models.ProviderFromSmash,
		models.ProviderSwissTransfer,
	}
	wantURLs := []string{
		"https://www.dropbox.com/s/x?dl=1",
		"https://fromsmash.com/first",
		"https://www.swisstransfer.com/d/tok-1",
	}
	for i, l := range links {
		if l.Provider != wantProviders[i] {
			t.Errorf("links[%d].Provider = %s, want %s", i, l.Provider, wantProviders[i])
		}
		if l.NormalizedURL != wantURLs[i] {
			t.Errorf("links[%d].NormalizedURL = %s, want %s", i, l.NormalizedURL, wantURLs[i])
		}
	}

	if links[0].RawURL != "https://www.dropbox.com/s/x?dl=0" {
		t.Errorf("RawURL = %q, want the URL as found in content", links[0].RawURL)
	}
}

// TestClassify verifies single-URL provider classification.
func TestClassify(t *testing.T) {
	tests := []struct {
		url          string
		wantProvider models.Provider
		wantURL      string
	}{
		{"https://www.dropbox.com/s/x?dl=0", models.ProviderDropbox, "https://www.dropbox.com/s/x?dl=1"},
		{"https://fromsmash.com/tok", models.ProviderFromSmash, "https://fromsmash.com/tok"},
		{"https://www.swisstransfer.com/d/tok", models.ProviderSwissTransfer, "https://www.swisstransfer.com/d/tok"},
		{"https://example.com/file.zip", models.ProviderUnknown, "https://example.com/file.zip"},
	}

	for _, tt := range tests {
		provider, url := Classify(tt.url)
		if provider != tt.wantProvider || url != tt.wantURL {
			t.Errorf("Classify(%q) = (%s, %q), want (%s, %q)",
				tt.url, provider, url, tt.wantProvider, tt.wantURL)
		}
	}
}
