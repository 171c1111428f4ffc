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

package mailsearch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"
)

// IMAPSearcher retrieves message content over IMAP. Each Search opens a
// fresh connection; the flow is rare enough that pooling is not worth it.
type IMAPSearcher struct {
	addr     string
	username string
	password string
	mailbox  string
}

// IMAPConfig carries IMAP connection settings.
type IMAPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Mailbox  string
}

// NewIMAPSearcher creates an IMAP-backed searcher.
func NewIMAPSearcher(cfg IMAPConfig) *IMAPSearcher {
	if cfg.Port == "" {
		cfg.Port = "993"
	}
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	return &IMAPSearcher{
		addr:     cfg.Host + ":" + cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		mailbox:  cfg.Mailbox,
	}
}

// Search connects, selects the mailbox, searches for messages from the
// sender with a matching subject since the given time, and returns the body
// of the most recent match. Returns (nil, nil) when nothing matches.
func (s *IMAPSearcher) Search(ctx context.Context, from, subject string, since time.Time) (*Content, error) {
	client, err := imapclient.DialTLS(s.addr, nil)
	if err != nil {
		return nil, fmt.Errorf("connect IMAP %s: %w", s.addr, err)
	}
	defer func() { _ = client.Logout().Wait() }()

	if err := client.Login(s.username, s.password).Wait(); err != nil {
		return nil, fmt.Errorf("IMAP login %s: %w", s.username, err)
	}

	if _, err := client.Select(s.mailbox, nil).Wait(); err != nil {
		return nil, fmt.Errorf("select %s: %w", s.mailbox, err)
	}

	criteria := &imap.SearchCriteria{
		Since: since,
		Header: []imap.SearchCriteriaHeaderField{
			{Key: "FROM", Value: from},
			{Key: "SUBJECT", Value: subject},
		},
	}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("IMAP search: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	// Most recent match wins.
	uidSet := imap.UIDSetNum(uids[len(uids)-1])

	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchCmd := client.Fetch(uidSet, &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	})

	msg := fetchCmd.Next()
	if msg == nil {
		return nil, fetchCmd.Close()
	}

	buf, err := msg.Collect()
	if err != nil {
		fetchCmd.Close()
		return nil, fmt.Errorf("collect message: %w", err)
	}
	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("close fetch: %w", err)
	}

	raw := buf.FindBodySection(bodySection)
	if raw == nil {
		return nil, nil
	}

	text, html := parseBody(raw)
	return &Content{Text: text, HTML: html}, nil
}

// parseBody extracts the text/plain and text/html parts of a raw RFC 2822
// message. A message that fails MIME parsing is treated as plain text.
func parseBody(raw []byte) (text, html string) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return string(raw), ""
	}
	defer mr.Close()

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain"):
			text = string(body)
		case strings.HasPrefix(contentType, "text/html"):
			html = string(body)
		}
	}

	return text, html
}
