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

// Package webhook is the entry point for inbound delivery-notification
// events. The orchestrator validates the payload, gates it on the sender
// allow-list, runs the detector reply flows, extracts and normalizes
// delivery-provider links, and persists them to the link store. Every run
// produces a structured Result — nothing escapes to the transport layer.
package webhook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/linkharvest/ingestion/internal/audit"
	"github.com/linkharvest/ingestion/internal/authz"
	"github.com/linkharvest/ingestion/internal/event"
	"github.com/linkharvest/ingestion/internal/extract"
	"github.com/linkharvest/ingestion/internal/linkstore"
	"github.com/linkharvest/ingestion/internal/mailer"
	"github.com/linkharvest/ingestion/internal/mailsearch"
	"github.com/linkharvest/ingestion/internal/models"
	"github.com/linkharvest/ingestion/internal/sender"
)

// Orchestrator coordinates one webhook invocation end to end. It owns no
// background work and is safe to call concurrently.
type Orchestrator struct {
	allowList *authz.AllowList
	store     linkstore.Store
	mail      mailer.Mailer       // nil when no mailer is configured
	search    mailsearch.Searcher // nil when no retrieval backend is configured
	auditor   *audit.Recorder     // nil when Redis is not configured
}

// OrchestratorConfig wires the orchestrator's collaborators.
type OrchestratorConfig struct {
	AllowList *authz.AllowList
	Store     linkstore.Store
	Mailer    mailer.Mailer
	Searcher  mailsearch.Searcher
	Auditor   *audit.Recorder
}

// NewOrchestrator creates the top-level event coordinator.
func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		allowList: cfg.AllowList,
		store:     cfg.Store,
		mail:      cfg.Mailer,
		search:    cfg.Searcher,
		auditor:   cfg.Auditor,
	}
}

// Process runs the full decision sequence for one inbound event:
// validate, resolve sender, authorize, detector branch, link sourcing,
// persist. Any panic below is contained and converted into an
// internal_error result.
func (o *Orchestrator) Process(ctx context.Context, e *models.InboundEvent) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("orchestration panic", "panic", r)
			res = failure(OutcomeInternalError, "internal error", fmt.Sprintf("%v", r))
		}
	}()

	if !event.Valid(e) {
		return failure(OutcomeInvalidPayload, "invalid payload")
	}

	addr := sender.ExtractBareAddress(e.SenderRaw())
	if addr == "" {
		return failure(OutcomeSenderUnresolved, "could not resolve sender address")
	}

	if !o.allowList.Authorized(addr) {
		slog.Warn("unauthorized webhook sender", "sender", addr, "subject", e.Subject)
		o.recordUnauthorized(ctx, addr, e)
		return failure(OutcomeUnauthorized, fmt.Sprintf("sender %s is not authorized", addr))
	}

	var warnings []string

	switch detectorModeFor(e.Detector) {
	case modeAutoReply:
		if err := o.sendReply(ctx, addr, e); err != nil {
			return failure(OutcomeMailFailed, "auto reply failed", err.Error())
		}
		return success(OutcomeOK, "auto reply sent", nil, 0, nil)

	case modeAutoReplyThenExtraction:
		// Reply failure does not stop this flow; it is folded into the
		// final result as a warning.
		if err := o.sendReply(ctx, addr, e); err != nil {
			slog.Warn("detector reply failed, continuing to extraction",
				"detector", e.Detector,
				"error", err,
			)
			warnings = append(warnings, fmt.Sprintf("auto reply failed: %v", err))
		}
		// This detector never falls back to mail retrieval; it only mines
		// what the payload already carries.
		links, _ := o.linksFromPayload(e)
		return o.persist(ctx, links, warnings)
	}

	links, retrievalErr := o.sourceLinks(ctx, addr, e)
	if retrievalErr != "" {
		return failure(OutcomeContentUnavailable, retrievalErr)
	}
	return o.persist(ctx, links, warnings)
}

// sourceLinks obtains canonical links for a plain extraction event, in
// priority order: structured delivery_links in the payload, raw content in
// the payload, then the mail-retrieval collaborator. A non-empty second
// return value means the retrieval fallback was exhausted.
func (o *Orchestrator) sourceLinks(ctx context.Context, addr string, e *models.InboundEvent) ([]models.CanonicalLink, string) {
	// Payload content takes precedence even when it yields zero links: the
	// retrieval fallback only runs when the payload carried nothing at all.
	if links, ok := o.linksFromPayload(e); ok {
		return links, ""
	}

	if o.search == nil {
		return nil, "no content in payload and no mail retrieval configured"
	}

	content, err := o.search.Search(ctx, addr, e.Subject, sinceTime(e.ReceivedAt))
	if err != nil {
		slog.Warn("mail retrieval failed", "sender", addr, "error", err)
		return nil, fmt.Sprintf("mail retrieval failed: %v", err)
	}
	if content == nil {
		return nil, "original message could not be retrieved"
	}

	return extract.ProcessAll(content.Text + "\n" + content.HTML), ""
}

// linksFromPayload extracts links from what the payload itself carries.
// The boolean distinguishes "payload carried content" (even if that content
// yielded no links) from "payload carried nothing".
func (o *Orchestrator) linksFromPayload(e *models.InboundEvent) ([]models.CanonicalLink, bool) {
	if len(e.DeliveryLinks) > 0 {
		return classifyDeliveryLinks(e.DeliveryLinks), true
	}
	if strings.TrimSpace(e.RawContent) != "" {
		return extract.ProcessAll(e.RawContent), true
	}
	return nil, false
}

// classifyDeliveryLinks turns the payload's structured links into canonical
// links, deduplicated by normalized URL with first occurrence winning.
func classifyDeliveryLinks(links []models.DeliveryLink) []models.CanonicalLink {
	var out []models.CanonicalLink
	seen := make(map[string]bool)

	for _, dl := range links {
		raw := strings.TrimSpace(dl.URL())
		if raw == "" {
			continue
		}
		provider, normalized := extract.Classify(raw)
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, models.CanonicalLink{
			Provider:         provider,
			RawURL:           raw,
			NormalizedURL:    normalized,
			OriginalFilename: dl.OriginalFilename,
		})
	}
	return out
}

// persist appends the sourced links and assembles the final result. An
// empty set is the expected "nothing to do" outcome, not an error; a store
// failure degrades to a warning because extraction already succeeded.
func (o *Orchestrator) persist(ctx context.Context, links []models.CanonicalLink, warnings []string) *Result {
	if len(links) == 0 {
		return success(OutcomeNoLinksFound, "no delivery links found", nil, 0, warnings)
	}

	written, ok := o.store.AppendMany(ctx, links)
	if !ok {
		slog.Warn("link store append failed", "links", len(links))
		warnings = append(warnings, "link store unavailable: some results were not persisted")
	}

	urls := make([]string, 0, len(links))
	for _, l := range links {
		urls = append(urls, l.NormalizedURL)
	}

	msg := fmt.Sprintf("processed %d delivery link(s), %d newly recorded", len(links), written)
	return success(OutcomeOK, msg, urls, written, warnings)
}

// sendReply composes and sends the detector's canned reply to the sender.
func (o *Orchestrator) sendReply(ctx context.Context, addr string, e *models.InboundEvent) error {
	if o.mail == nil {
		return fmt.Errorf("no mailer configured")
	}
	subject, html := composeReply(e)
	if err := o.mail.Send(ctx, addr, subject, html); err != nil {
		return err
	}
	slog.Info("detector reply sent", "detector", e.Detector, "to", addr)
	return nil
}

// recordUnauthorized writes an audit record, best-effort.
func (o *Orchestrator) recordUnauthorized(ctx context.Context, addr string, e *models.InboundEvent) {
	if o.auditor == nil {
		return
	}
	if err := o.auditor.RecordUnauthorized(ctx, addr, e.Subject, e.ReceivedAt); err != nil {
		slog.Warn("audit record failed", "sender", addr, "error", err)
	}
}

// sinceTime parses the event's received_at into a search lower bound,
// falling back to the last 24 hours for unparseable values.
func sinceTime(receivedAt string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, strings.TrimSpace(receivedAt)); err == nil {
			return t
		}
	}
	return time.Now().Add(-24 * time.Hour)
}
