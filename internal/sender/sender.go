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

// Package sender extracts a bare email address from a free-form
// "Display Name <addr>" header value. It performs no RFC 5322 validation —
// garbage addresses pass through and simply fail the allow-list check later.
package sender

import "strings"

// ExtractBareAddress returns the bare address contained in raw, or "" when
// none can be extracted.
//
// If raw contains '<', the substring after the first '<' up to the first
// subsequent '>' is taken (and "" returned when '>' is absent). Otherwise the
// whole trimmed string is the address.
func ExtractBareAddress(raw string) string {
	open := strings.Index(raw, "<")
	if open < 0 {
		return strings.TrimSpace(raw)
	}

	rest := raw[open+1:]
	end := strings.Index(rest, ">")
	if end < 0 {
		return ""
	}

	return strings.TrimSpace(rest[:end])
}
