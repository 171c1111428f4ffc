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

// Package audit records rejected webhook attempts to a capped Redis list so
// unauthorized senders are visible without digging through service logs.
// Recording is best-effort: an audit failure never affects the webhook
// response.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultMaxAttempts caps the audit list length.
	DefaultMaxAttempts = 1000
)

// Attempt is one recorded unauthorized webhook attempt.
type Attempt struct {
	ID         string `json:"id"`
	Sender     string `json:"sender"`
	Subject    string `json:"subject"`
	ReceivedAt string `json:"received_at,omitempty"`
	RecordedAt string `json:"recorded_at"`
}

// Recorder appends unauthorized attempts to a Redis list, trimmed to a
// fixed length.
type Recorder struct {
	rdb *redis.Client
	key string
	max int64
}

// NewRecorder creates an audit recorder writing to the given list key.
func NewRecorder(rdb *redis.Client, key string) *Recorder {
	return &Recorder{
		rdb: rdb,
		key: key,
		max: DefaultMaxAttempts,
	}
}

// RecordUnauthorized appends one attempt and trims the list.
func (r *Recorder) RecordUnauthorized(ctx context.Context, sender, subject, receivedAt string) error {
	attempt := Attempt{
		ID:         uuid.New().String(),
		Sender:     sender,
		Subject:    subject,
		ReceivedAt: receivedAt,
		RecordedAt: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal audit attempt: %w", err)
	}

	if err := r.rdb.LPush(ctx, r.key, string(data)).Err(); err != nil {
		return fmt.Errorf("redis LPUSH: %w", err)
	}
	if err := r.rdb.LTrim(ctx, r.key, 0, r.max-1).Err(); err != nil {
		return fmt.Errorf("redis LTRIM: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (r *Recorder) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.rdb.Ping(ctx).Err()
}
