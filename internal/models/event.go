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

// Package models defines the data structures shared across the ingestion service.
package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Detector selects an automated-reply flow instead of, or in addition to,
// link extraction.
type Detector string

const (
	DetectorNone          Detector = ""
	DetectorAutoresponder Detector = "autoresponder"
	DetectorRecadrage     Detector = "recadrage"
)

// Recognized reports whether the detector tag is one we know how to handle.
func (d Detector) Recognized() bool {
	return d == DetectorAutoresponder || d == DetectorRecadrage
}

// Provider identifies a file-delivery service.
type Provider string

const (
	ProviderDropbox       Provider = "dropbox"
	ProviderFromSmash     Provider = "fromsmash"
	ProviderSwissTransfer Provider = "swisstransfer"
	ProviderUnknown       Provider = "unknown"
)

// DeliveryLink is one structured link carried in the webhook payload.
//
// Older webhook senders post bare URL strings instead of objects, so the
// unmarshaller accepts both forms.
type DeliveryLink struct {
	Provider         string `json:"provider,omitempty"`
	RawURL           string `json:"raw_url,omitempty"`
	DirectURL        string `json:"direct_url,omitempty"`
	R2URL            string `json:"r2_url,omitempty"`
	OriginalFilename string `json:"original_filename,omitempty"`
}

// UnmarshalJSON accepts either a JSON object or a bare URL string.
func (l *DeliveryLink) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		l.RawURL = s
		return nil
	}

	type alias DeliveryLink
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*l = DeliveryLink(a)
	return nil
}

// URL returns the best raw URL carried by the link.
func (l DeliveryLink) URL() string {
	if l.RawURL != "" {
		return l.RawURL
	}
	return l.DirectURL
}

// InboundEvent is the untrusted webhook payload describing a file-delivery
// notification derived from an email. Constructed once per request and never
// mutated afterwards.
type InboundEvent struct {
	Subject       string         `json:"subject"`
	SenderField   string         `json:"sender_field"`
	SenderAddress string         `json:"sender_address"`
	SenderEmail   string         `json:"sender_email"`
	ReceivedAt    string         `json:"received_at"`
	Detector      Detector       `json:"detector"`
	RawContent    string         `json:"raw_content"`
	DeliveryLinks []DeliveryLink `json:"delivery_links"`

	// Detector-specific free fields, passed through untouched.
	DeliveryTime      string `json:"delivery_time,omitempty"`
	WebhooksTimeStart string `json:"webhooks_time_start,omitempty"`
	WebhooksTimeEnd   string `json:"webhooks_time_end,omitempty"`
}

// SenderRaw returns the raw sender header value, preferring the explicit
// address fields over the free-form sender_field.
func (e *InboundEvent) SenderRaw() string {
	for _, v := range []string{e.SenderAddress, e.SenderEmail, e.SenderField} {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// CanonicalLink is one deduplicated, normalized delivery URL ready for
// persistence.
type CanonicalLink struct {
	Provider         Provider  `json:"provider"`
	RawURL           string    `json:"raw_url"`
	NormalizedURL    string    `json:"normalized_url"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
