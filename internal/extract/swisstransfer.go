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

// swissTransferPattern matches a SwissTransfer download URL with its
// UUID-like token, case-insensitive.
var swissTransferPattern = regexp.MustCompile(`(?i)https://www\.swisstransfer\.com/d/[A-Za-z0-9-]+`)

// SwissTransfer extracts SwissTransfer download links. No rewriting.
type SwissTransfer struct{}

func (SwissTransfer) Provider() models.Provider { return models.ProviderSwissTransfer }

func (SwissTransfer) ExtractMatches(content string) []Match {
	return findMatches(swissTransferPattern, content, identity)
}
