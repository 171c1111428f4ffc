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
	"regexp"
	"strings"

	"github.com/linkharvest/ingestion/internal/models"
)

// dropboxPattern matches a Dropbox share URL up to the first character that
// cannot belong to it when embedded in HTML: whitespace, '"', '<' and '>'
// all terminate the match. Excluding them in the character class avoids
// having to trim stray quotes afterwards.
var dropboxPattern = regexp.MustCompile(`https://www\.dropbox\.com/[^\s"<>]+`)

// Dropbox extracts Dropbox share links and forces the direct-download
// dl=1 parameter.
type Dropbox struct{}

func (Dropbox) Provider() models.Provider { return models.ProviderDropbox }

func (Dropbox) ExtractMatches(content string) []Match {
	return findMatches(dropboxPattern, content, normalizeDropbox)
}

// normalizeDropbox rewrites a Dropbox URL for direct download. Steps, in
// order:
//
//  1. unescape HTML-entity ampersands ("&amp;" -> "&");
//  2. replace the first "?dl=0" with "?dl=1", else the first "&dl=0" with
//     "&dl=1";
//  3. if the URL still lacks "dl=1", append it — "&dl=1" when a '?' is
//     already present, "?dl=1" otherwise.
//
// The ordering matters: a URL with no query at all ends with "?dl=1", one
// with existing parameters ends with "&dl=1".
func normalizeDropbox(url string) string {
	url = strings.ReplaceAll(url, "&amp;", "&")

	if strings.Contains(url, "?dl=0") {
		url = strings.Replace(url, "?dl=0", "?dl=1", 1)
	} else if strings.Contains(url, "&dl=0") {
		url = strings.Replace(url, "&dl=0", "&dl=1", 1)
	}

	if !strings.Contains(url, "dl=1") {
		if strings.Contains(url, "?") {
			url += "&dl=1"
		} else {
			url += "?dl=1"
		}
	}

	return url
}
