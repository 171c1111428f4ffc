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

// Package config loads configuration from config.yaml and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MailerConfig holds the OAuth2 client-credentials settings for the reply
// mailer. All fields empty means no mailer is configured and detector
// replies will fail with mail_failed.
type MailerConfig struct {
	TenantID     string `yaml:"tenant_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	From         string `yaml:"from"`
}

// Enabled reports whether the mailer has usable credentials.
func (m MailerConfig) Enabled() bool {
	return m.TenantID != "" && m.ClientID != "" && m.ClientSecret != "" && m.From != ""
}

// IMAPConfig holds the mail-retrieval fallback settings. An empty host
// disables the fallback.
type IMAPConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Mailbox  string `yaml:"mailbox"`
}

// Config holds all configuration for the link ingestion service.
type Config struct {
	// Sender allow-list — the only authorization the service has.
	AuthorizedSenders []string

	// Link store
	StoreBackend  string // "file" or "postgres"
	StorePath     string
	StoreMaxItems int
	StoreMaxBytes int64
	DatabaseURL   string

	// Redis (unauthorized-attempt audit trail)
	RedisURL  string
	AuditList string

	Mailer MailerConfig
	IMAP   IMAPConfig

	// Servers
	WebhookPort int
	Port        int // health check
}

// rawConfig mirrors the YAML structure for unmarshalling.
type rawConfig struct {
	AuthorizedSenders []string `yaml:"authorized_senders"`
	Store             struct {
		Backend     string `yaml:"backend"`
		Path        string `yaml:"path"`
		MaxEntries  int    `yaml:"max_entries"`
		MaxBytes    int64  `yaml:"max_bytes"`
		DatabaseURL string `yaml:"database_url"`
	} `yaml:"store"`
	Redis struct {
		URL       string `yaml:"url"`
		AuditList string `yaml:"audit_list"`
	} `yaml:"redis"`
	Mailer MailerConfig `yaml:"mailer"`
	IMAP   IMAPConfig   `yaml:"imap"`
}

// Load reads configuration from config.yaml (with env var expansion) and
// environment variables for non-YAML settings.
func Load() (*Config, error) {
	configPath := envOrDefault("CONFIG_PATH", "/app/config/config.yaml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}

	// Expand ${VAR} references in the YAML
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}

	cfg := &Config{
		StoreBackend:  firstNonEmpty(raw.Store.Backend, envOrDefault("STORE_BACKEND", "file")),
		StorePath:     firstNonEmpty(raw.Store.Path, envOrDefault("STORE_PATH", "/app/data/links.json")),
		StoreMaxItems: raw.Store.MaxEntries,
		StoreMaxBytes: raw.Store.MaxBytes,
		DatabaseURL:   firstNonEmpty(raw.Store.DatabaseURL, os.Getenv("DATABASE_URL")),
		RedisURL:      firstNonEmpty(raw.Redis.URL, os.Getenv("REDIS_URL")),
		AuditList:     firstNonEmpty(raw.Redis.AuditList, envOrDefault("AUDIT_LIST", "linkharvest:unauthorized")),
		Mailer:        raw.Mailer,
		IMAP:          raw.IMAP,
		WebhookPort:   envOrDefaultInt("WEBHOOK_PORT", 8081),
		Port:          envOrDefaultInt("PORT", 8080),
	}

	// Drop blank allow-list entries left behind by env expansion
	for _, s := range raw.AuthorizedSenders {
		if strings.TrimSpace(s) != "" {
			cfg.AuthorizedSenders = append(cfg.AuthorizedSenders, strings.TrimSpace(s))
		}
	}

	if len(cfg.AuthorizedSenders) == 0 {
		return nil, fmt.Errorf("no authorized senders configured — check config.yaml and environment variables")
	}

	switch cfg.StoreBackend {
	case "file":
		// StorePath always has a default
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("store backend is postgres but no database_url configured")
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
