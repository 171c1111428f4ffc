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

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/linkharvest/ingestion/internal/linkstore"
	"github.com/linkharvest/ingestion/internal/models"
)

// Handler exposes the orchestrator over HTTP.
type Handler struct {
	orch  *Orchestrator
	store linkstore.Store
}

// NewHandler creates the HTTP handler.
func NewHandler(orch *Orchestrator, store linkstore.Store) *Handler {
	return &Handler{
		orch:  orch,
		store: store,
	}
}

// ServeDelivery handles POST /webhook/delivery. The response is always the
// orchestrator's structured Result with HTTP 200 — failures are part of the
// envelope, not the status code, so upstream webhook senders never retry.
func (h *Handler) ServeDelivery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read webhook body", "error", err)
		writeJSON(w, failure(OutcomeInvalidPayload, "invalid payload"))
		return
	}

	var e models.InboundEvent
	if err := json.Unmarshal(body, &e); err != nil {
		slog.Info("webhook body not valid JSON", "body_len", len(body))
		writeJSON(w, failure(OutcomeInvalidPayload, "invalid payload"))
		return
	}

	res := h.orch.Process(r.Context(), &e)
	writeJSON(w, res)
}

// ServeRecent handles GET /links?limit=N, newest first.
func (h *Handler) ServeRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}

	entries := h.store.Recent(r.Context(), limit)
	if entries == nil {
		entries = []linkstore.Entry{}
	}
	writeJSON(w, entries)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Serve starts the webhook HTTP server on the given port. It binds the port
// immediately and signals readiness via the returned channel before
// accepting connections.
func Serve(ctx context.Context, port int, handler *Handler) (<-chan struct{}, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook/delivery", handler.ServeDelivery)
	mux.HandleFunc("/links", handler.ServeRecent)

	server := &http.Server{
		Handler: mux,
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("bind webhook port %d: %w", port, err)
	}

	ready := make(chan struct{})

	go func() {
		<-ctx.Done()
		slog.Info("webhook server shutting down")
		server.Close()
	}()

	go func() {
		slog.Info("webhook server listening", "port", port)
		close(ready)
		if err := server.Serve(ln); err != http.ErrServerClosed {
			slog.Error("webhook server error", "error", err)
		}
	}()

	return ready, nil
}
