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

// Package mailsearch retrieves original email content from a mailbox when
// the webhook payload carries neither delivery links nor raw content. It is
// the last-resort content source in the orchestration flow.
package mailsearch

import (
	"context"
	"time"
)

// Content is the retrieved message body in both representations.
type Content struct {
	Text string
	HTML string
}

// Searcher looks up the most recent message matching sender and subject.
// A nil Content with a nil error means no match was found.
type Searcher interface {
	Search(ctx context.Context, from, subject string, since time.Time) (*Content, error)
}
