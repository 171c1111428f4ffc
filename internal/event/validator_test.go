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

package event

import (
	"testing"

	"github.com/linkharvest/ingestion/internal/models"
)

// TestValid verifies the accepted payload shapes.
func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		event *models.InboundEvent
		want  bool
	}{
		{
			name: "subject + sender + received_at",
			event: &models.InboundEvent{
				Subject:     "Livraison fichiers",
				SenderField: "Achats <achats@media-solution.fr>",
				ReceivedAt:  "2026-03-02T10:00:00Z",
			},
			want: true,
		},
		{
			name: "subject + sender + delivery_links",
			event: &models.InboundEvent{
				Subject:       "Livraison fichiers",
				SenderField:   "achats@media-solution.fr",
				DeliveryLinks: []models.DeliveryLink{{RawURL: "https://fromsmash.com/abc"}},
			},
			want: true,
		},
		{
			name: "subject + sender + raw_content",
			event: &models.InboundEvent{
				Subject:     "Livraison fichiers",
				SenderField: "achats@media-solution.fr",
				RawContent:  "voir https://fromsmash.com/abc",
			},
			want: true,
		},
		{
			name: "detector + subject + sender",
			event: &models.InboundEvent{
				Subject:     "Livraison",
				SenderField: "achats@media-solution.fr",
				Detector:    models.DetectorAutoresponder,
			},
			want: true,
		},
		{
			name: "sender_address alternate field resolves",
			event: &models.InboundEvent{
				Subject:       "Livraison",
				SenderAddress: "achats@media-solution.fr",
				ReceivedAt:    "2026-03-02",
			},
			want: true,
		},
		{
			name: "missing subject",
			event: &models.InboundEvent{
				SenderField: "achats@media-solution.fr",
				ReceivedAt:  "2026-03-02",
			},
			want: false,
		},
		{
			name: "unresolvable sender",
			event: &models.InboundEvent{
				Subject:     "Livraison",
				SenderField: "Achats <achats@media-solution.fr",
				ReceivedAt:  "2026-03-02",
			},
			want: false,
		},
		{
			name: "no content, no links, no received_at, no detector",
			event: &models.InboundEvent{
				Subject:     "Livraison",
				SenderField: "achats@media-solution.fr",
			},
			want: false,
		},
		{
			name: "unrecognized detector alone is not enough",
			event: &models.InboundEvent{
				Subject:     "Livraison",
				SenderField: "achats@media-solution.fr",
				Detector:    models.Detector("mystery"),
			},
			want: false,
		},
		{
			name:  "nil event",
			event: nil,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.event); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
