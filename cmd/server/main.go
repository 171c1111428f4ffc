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

// LinkHarvest — Delivery-Link Ingestion Service
//
// Entry point for the ingestion service. It:
//  1. Loads configuration from config.yaml
//  2. Opens the link store (locked JSON file or Postgres)
//  3. Connects to Redis for the unauthorized-attempt audit trail
//  4. Builds the reply mailer and the IMAP retrieval fallback
//  5. Serves the webhook endpoint and the recent-links read surface
//  6. Handles graceful shutdown on SIGTERM/SIGINT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/linkharvest/ingestion/internal/audit"
	"github.com/linkharvest/ingestion/internal/authz"
	"github.com/linkharvest/ingestion/internal/config"
	"github.com/linkharvest/ingestion/internal/linkstore"
	"github.com/linkharvest/ingestion/internal/mailer"
	"github.com/linkharvest/ingestion/internal/mailsearch"
	"github.com/linkharvest/ingestion/internal/webhook"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("starting LinkHarvest ingestion service")

	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"authorized_senders", len(cfg.AuthorizedSenders),
		"store_backend", cfg.StoreBackend,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Link Store ---
	var store linkstore.Store
	var pgPool *pgxpool.Pool

	switch cfg.StoreBackend {
	case "postgres":
		pgPool, err = pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to create Postgres pool", "error", err)
			os.Exit(1)
		}
		defer pgPool.Close()

		if err := pgPool.Ping(ctx); err != nil {
			slog.Error("failed to connect to PostgreSQL", "error", err)
			os.Exit(1)
		}
		slog.Info("connected to PostgreSQL")
		store = linkstore.NewPGStore(pgPool)

	default:
		store = linkstore.NewFileStore(linkstore.FileStoreConfig{
			Path:       cfg.StorePath,
			MaxEntries: cfg.StoreMaxItems,
			MaxBytes:   cfg.StoreMaxBytes,
		})
	}

	if !store.Ensure(ctx) {
		slog.Error("failed to initialise link store")
		os.Exit(1)
	}
	slog.Info("link store ready")

	// --- Redis Audit Trail ---
	var auditor *audit.Recorder
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opt)
		defer rdb.Close()

		auditor = audit.NewRecorder(rdb, cfg.AuditList)
		if err := auditor.Ping(ctx); err != nil {
			slog.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		slog.Info("connected to Redis", "audit_list", cfg.AuditList)
	} else {
		slog.Warn("no Redis configured — unauthorized attempts will only appear in logs")
	}

	// --- Reply Mailer ---
	var mail mailer.Mailer
	if cfg.Mailer.Enabled() {
		mail = mailer.NewGraphMailer(ctx, mailer.GraphConfig{
			TenantID:     cfg.Mailer.TenantID,
			ClientID:     cfg.Mailer.ClientID,
			ClientSecret: cfg.Mailer.ClientSecret,
			From:         cfg.Mailer.From,
		})
		slog.Info("reply mailer configured", "from", cfg.Mailer.From)
	} else {
		slog.Warn("no mailer configured — detector replies will fail")
	}

	// --- IMAP Retrieval Fallback ---
	var searcher mailsearch.Searcher
	if cfg.IMAP.Host != "" {
		searcher = mailsearch.NewIMAPSearcher(mailsearch.IMAPConfig{
			Host:     cfg.IMAP.Host,
			Port:     cfg.IMAP.Port,
			Username: cfg.IMAP.Username,
			Password: cfg.IMAP.Password,
			Mailbox:  cfg.IMAP.Mailbox,
		})
		slog.Info("mail retrieval fallback configured", "host", cfg.IMAP.Host)
	}

	// --- Orchestrator + Webhook Server ---
	orch := webhook.NewOrchestrator(webhook.OrchestratorConfig{
		AllowList: authz.NewAllowList(cfg.AuthorizedSenders),
		Store:     store,
		Mailer:    mail,
		Searcher:  searcher,
		Auditor:   auditor,
	})

	handler := webhook.NewHandler(orch, store)
	ready, err := webhook.Serve(ctx, cfg.WebhookPort, handler)
	if err != nil {
		slog.Error("failed to start webhook server", "error", err)
		os.Exit(1)
	}
	<-ready

	// --- Health Check Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if auditor != nil {
			if err := auditor.Ping(r.Context()); err != nil {
				http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		if pgPool != nil {
			if err := pgPool.Ping(r.Context()); err != nil {
				http.Error(w, "postgres unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh

		slog.Info("received shutdown signal", "signal", sig)
		cancel() // Stops the webhook server

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("ingestion service listening", "addr", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("ingestion service stopped")
}
