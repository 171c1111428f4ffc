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

// Package event validates inbound webhook payload shapes before any
// processing happens. Rejection is a normal result, not an error.
package event

import (
	"strings"

	"github.com/linkharvest/ingestion/internal/models"
	"github.com/linkharvest/ingestion/internal/sender"
)

// Valid reports whether the event has one of the accepted payload shapes.
//
// Every accepted shape requires a non-empty subject and a sender header from
// which a bare address can be extracted, plus at least one of:
//   - a non-empty received_at,
//   - a non-empty delivery_links sequence,
//   - non-empty raw_content,
//   - a recognized detector tag.
func Valid(e *models.InboundEvent) bool {
	if e == nil {
		return false
	}

	if strings.TrimSpace(e.Subject) == "" {
		return false
	}
	if sender.ExtractBareAddress(e.SenderRaw()) == "" {
		return false
	}

	switch {
	case strings.TrimSpace(e.ReceivedAt) != "":
		return true
	case len(e.DeliveryLinks) > 0:
		return true
	case strings.TrimSpace(e.RawContent) != "":
		return true
	case e.Detector.Recognized():
		return true
	}
	return false
}
