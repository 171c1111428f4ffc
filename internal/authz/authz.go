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

// Package authz gates inbound events on a static allow-list of sender
// addresses. The list is loaded once at startup and injected wherever it is
// needed; the administrative Add/Remove surface is in-process only and off
// the hot path.
package authz

import (
	"strings"
	"sync"
)

// AllowList is a process-wide set of authorized sender addresses.
// Matching is case-insensitive and whitespace-trimmed.
type AllowList struct {
	mu    sync.RWMutex
	addrs []string
}

// NewAllowList builds an allow-list from the configured addresses.
// Empty entries are dropped; duplicates are collapsed.
func NewAllowList(addrs []string) *AllowList {
	l := &AllowList{}
	for _, a := range addrs {
		l.Add(a)
	}
	return l
}

// Authorized reports whether the address is on the allow-list.
// An empty address is never authorized.
func (l *AllowList) Authorized(addr string) bool {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return false
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, a := range l.addrs {
		if strings.EqualFold(a, addr) {
			return true
		}
	}
	return false
}

// Add puts an address on the allow-list. Adding an address that is already
// present (in any casing) is a no-op.
func (l *AllowList) Add(addr string) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, a := range l.addrs {
		if strings.EqualFold(a, addr) {
			return
		}
	}
	l.addrs = append(l.addrs, addr)
}

// Remove takes an address off the allow-list and reports whether an entry
// was actually removed.
func (l *AllowList) Remove(addr string) bool {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i, a := range l.addrs {
		if strings.EqualFold(a, addr) {
			l.addrs = append(l.addrs[:i], l.addrs[i+1:]...)
			return true
		}
	}
	return false
}

// Addresses returns a copy of the current allow-list in insertion order.
func (l *AllowList) Addresses() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.addrs))
	copy(out, l.addrs)
	return out
}
