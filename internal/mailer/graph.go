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

package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2/clientcredentials"
)

// DefaultGraphBaseURL is the production Microsoft Graph endpoint.
const DefaultGraphBaseURL = "https://graph.microsoft.com/v1.0"

// GraphMailer sends mail through the Graph sendMail API as a configured
// mailbox, authenticating with OAuth2 client credentials.
type GraphMailer struct {
	httpClient *http.Client
	baseURL    string
	from       string
}

// GraphConfig carries the client-credentials settings for one tenant.
type GraphConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	From         string
	BaseURL      string
}

// NewGraphMailer builds a Graph mailer. The returned client refreshes its
// token automatically.
func NewGraphMailer(ctx context.Context, cfg GraphConfig) *GraphMailer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGraphBaseURL
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}

	return &GraphMailer{
		httpClient: creds.Client(ctx),
		baseURL:    cfg.BaseURL,
		from:       cfg.From,
	}
}

// graphSendRequest is the sendMail request body shape.
type graphSendRequest struct {
	Message         graphMessage `json:"message"`
	SaveToSentItems bool         `json:"saveToSentItems"`
}

type graphMessage struct {
	Subject      string           `json:"subject"`
	Body         graphBody        `json:"body"`
	ToRecipients []graphRecipient `json:"toRecipients"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphRecipient struct {
	EmailAddress graphAddress `json:"emailAddress"`
}

type graphAddress struct {
	Address string `json:"address"`
}

// Send delivers one HTML email via POST /users/{from}/sendMail.
func (m *GraphMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	body := graphSendRequest{
		Message: graphMessage{
			Subject: subject,
			Body: graphBody{
				ContentType: "HTML",
				Content:     htmlBody,
			},
			ToRecipients: []graphRecipient{
				{EmailAddress: graphAddress{Address: to}},
			},
		},
		SaveToSentItems: true,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal sendMail body: %w", err)
	}

	url := fmt.Sprintf("%s/users/%s/sendMail", m.baseURL, m.from)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("graph sendMail returned HTTP %d: %s", resp.StatusCode, detail)
	}
	return nil
}
