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

package authz

import "testing"

// TestAuthorized verifies case-insensitive allow-list matching.
func TestAuthorized(t *testing.T) {
	l := NewAllowList([]string{"achats@media-solution.fr", "ops@example.com"})

	tests := []struct {
		addr string
		want bool
	}{
		{"achats@media-solution.fr", true},
		{"ACHATS@MEDIA-SOLUTION.FR", true},
		{"Achats@Media-Solution.fr", true},
		{"  achats@media-solution.fr  ", true},
		{"ops@example.com", true},
		{"unauthorized@example.com", false},
		{"achats@media-solution.com", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		if got := l.Authorized(tt.addr); got != tt.want {
			t.Errorf("Authorized(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

// TestAddIsIdempotent verifies that duplicate insertion is a no-op.
func TestAddIsIdempotent(t *testing.T) {
	l := NewAllowList(nil)

	l.Add("a@b.fr")
	l.Add("A@B.FR")
	l.Add("a@b.fr")

	if got := len(l.Addresses()); got != 1 {
		t.Fatalf("len(Addresses()) = %d, want 1", got)
	}
	if !l.Authorized("a@b.fr") {
		t.Error("expected a@b.fr to be authorized after Add")
	}
}

// TestRemove verifies that removal reports whether an entry was removed.
func TestRemove(t *testing.T) {
	l := NewAllowList([]string{"a@b.fr"})

	if !l.Remove("A@B.FR") {
		t.Error("Remove of present address returned false")
	}
	if l.Remove("a@b.fr") {
		t.Error("Remove of absent address returned true")
	}
	if l.Authorized("a@b.fr") {
		t.Error("address still authorized after removal")
	}
}

// TestNewAllowListDropsEmpties verifies blank configured entries are ignored.
func TestNewAllowListDropsEmpties(t *testing.T) {
	l := NewAllowList([]string{"", "  ", "a@b.fr"})

	if got := len(l.Addresses()); got != 1 {
		t.Errorf("len(Addresses()) = %d, want 1", got)
	}
}
