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

	"github.com/linkharvest/ingestion/internal/models"
)

// fromSmashPattern matches a FromSmash transfer URL (with or without www),
// scheme and host case-insensitive. The token class stops the match before
// any whitespace, quote or markup character.
var fromSmashPattern = regexp.MustCompile(`(?i)https://(?:www\.)?fromsmash\.com/[A-Za-z0-9_-]+`)

// FromSmash extracts FromSmash transfer links. No rewriting — the share URL
// is already the download URL.
type FromSmash struct{}

func (FromSmash) Provider() models.Provider { return models.ProviderFromSmash }

func (FromSmash) ExtractMatches(content string) []Match {
	return findMatches(fromSmashPattern, content, identity)
}
