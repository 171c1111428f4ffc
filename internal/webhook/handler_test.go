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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/linkharvest/ingestion/internal/linkstore"
)

func newTestHandler(t *testing.T) (*Handler, *fixture) {
	t.Helper()
	f := newFixture(t, nil)
	return NewHandler(f.orch, f.store), f
}

// TestServeDelivery verifies the end-to-end HTTP flow.
func TestServeDelivery(t *testing.T) {
	h, _ := newTestHandler(t)

	payload := `{
		"subject": "Livraison fichiers",
		"sender_field": "Achats <achats@media-solution.fr>",
		"raw_content": "...https://fromsmash.com/OPhYnnPgFM-ct..."
	}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/delivery", strings.NewReader(payload))
	rr := httptest.NewRecorder()

	h.ServeDelivery(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var res Result
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("response not valid JSON: %v", err)
	}
	if !res.Success || res.Outcome != OutcomeOK {
		t.Errorf("got outcome %s (success=%v), want ok", res.Outcome, res.Success)
	}
	if len(res.ProcessedURLs) != 1 || res.ProcessedURLs[0] != "https://fromsmash.com/OPhYnnPgFM-ct" {
		t.Errorf("ProcessedURLs = %v", res.ProcessedURLs)
	}
}

// TestServeDeliveryBareStringLinks verifies that delivery_links entries may
// be bare URL strings instead of objects.
func TestServeDeliveryBareStringLinks(t *testing.T) {
	h, _ := newTestHandler(t)

	payload := `{
		"subject": "Livraison fichiers",
		"sender_field": "achats@media-solution.fr",
		"delivery_links": [
			"https://fromsmash.com/abc",
			{"provider": "dropbox", "raw_url": "https://www.dropbox.com/s/x?dl=0"}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/delivery", strings.NewReader(payload))
	rr := httptest.NewRecorder()

	h.ServeDelivery(rr, req)

	var res Result
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.Outcome != OutcomeOK {
		t.Fatalf("got outcome %s, want ok", res.Outcome)
	}
	want := []string{"https://fromsmash.com/abc", "https://www.dropbox.com/s/x?dl=1"}
	if len(res.ProcessedURLs) != 2 || res.ProcessedURLs[0] != want[0] || res.ProcessedURLs[1] != want[1] {
		t.Errorf("ProcessedURLs = %v, want %v", res.ProcessedURLs, want)
	}
}

// TestServeDeliveryInvalidJSON verifies malformed bodies get a structured
// invalid-payload result, not an HTTP error.
func TestServeDeliveryInvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/webhook/delivery", strings.NewReader("not json"))
	rr := httptest.NewRecorder()

	h.ServeDelivery(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var res Result
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Success || res.Outcome != OutcomeInvalidPayload {
		t.Errorf("got outcome %s, want invalid_payload", res.Outcome)
	}
}

// TestServeDeliveryMethodNotAllowed verifies GETs are refused.
func TestServeDeliveryMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/webhook/delivery", nil)
	rr := httptest.NewRecorder()

	h.ServeDelivery(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
}

// TestServeRecent verifies the read surface.
func TestServeRecent(t *testing.T) {
	h, _ := newTestHandler(t)

	payload := `{
		"subject": "Livraison",
		"sender_field": "achats@media-solution.fr",
		"raw_content": "https://fromsmash.com/abc"
	}`
	req := httptest.NewRequest(http.MethodPost, "/webhook/delivery", strings.NewReader(payload))
	h.ServeDelivery(httptest.NewRecorder(), req)

	readReq := httptest.NewRequest(http.MethodGet, "/links?limit=5", nil)
	rr := httptest.NewRecorder()
	h.ServeRecent(rr, readReq)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var entries []linkstore.Entry
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatalf("response not a JSON array: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Normalized() != "https://fromsmash.com/abc" {
		t.Errorf("entry = %q", entries[0].Normalized())
	}
}
