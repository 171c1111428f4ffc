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

package webhook

// Outcome labels the terminal state an orchestration run ended in.
type Outcome string

const (
	OutcomeOK                 Outcome = "ok"
	OutcomeInvalidPayload     Outcome = "invalid_payload"
	OutcomeSenderUnresolved   Outcome = "sender_unresolved"
	OutcomeUnauthorized       Outcome = "unauthorized"
	OutcomeMailFailed         Outcome = "mail_failed"
	OutcomeContentUnavailable Outcome = "content_unavailable"
	OutcomeNoLinksFound       Outcome = "no_links_found"
	OutcomeInternalError      Outcome = "internal_error"
)

// Result is the structured outcome every orchestration run produces. It is
// returned, never thrown: transport handlers serialize it as-is.
type Result struct {
	Success       bool     `json:"success"`
	Outcome       Outcome  `json:"outcome"`
	Message       string   `json:"message"`
	ProcessedURLs []string `json:"processed_urls"`
	Errors        []string `json:"errors"`
	Persisted     int      `json:"persisted"`
}

// failure builds a terminal non-success result.
func failure(outcome Outcome, message string, errs ...string) *Result {
	if errs == nil {
		errs = []string{}
	}
	return &Result{
		Success:       false,
		Outcome:       outcome,
		Message:       message,
		ProcessedURLs: []string{},
		Errors:        errs,
	}
}

// success builds a terminal success result.
func success(outcome Outcome, message string, urls []string, persisted int, warnings []string) *Result {
	if urls == nil {
		urls = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return &Result{
		Success:       true,
		Outcome:       outcome,
		Message:       message,
		ProcessedURLs: urls,
		Errors:        warnings,
		Persisted:     persisted,
	}
}
