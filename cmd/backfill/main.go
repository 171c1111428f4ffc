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

// LinkHarvest — Historical Backfill Command
//
// Standalone CLI tool that mines exported email content (text or HTML
// dumps) for delivery-provider links and appends them to the link store.
// Intended for seeding the store on new deployments from mailbox exports.
//
// Usage:
//
//	go run ./cmd/backfill/ --input export.html [--store /app/data/links.json]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/linkharvest/ingestion/internal/extract"
	"github.com/linkharvest/ingestion/internal/linkstore"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// --- CLI Flags ---
	inputFlag := flag.String("input", "", "Path to the exported content to mine (required)")
	storeFlag := flag.String("store", "/app/data/links.json", "Path to the link store file")
	maxEntries := flag.Int("max-entries", 0, "Rotation ceiling on entry count (0 = default)")
	flag.Parse()

	if *inputFlag == "" {
		fmt.Fprintf(os.Stderr, "Error: --input is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	content, err := os.ReadFile(*inputFlag)
	if err != nil {
		slog.Error("failed to read input", "path", *inputFlag, "error", err)
		os.Exit(1)
	}

	slog.Info("starting backfill",
		"input", *inputFlag,
		"store", *storeFlag,
		"bytes", len(content),
	)

	ctx := context.Background()

	store := linkstore.NewFileStore(linkstore.FileStoreConfig{
		Path:       *storeFlag,
		MaxEntries: *maxEntries,
	})
	if !store.Ensure(ctx) {
		slog.Error("failed to initialise link store", "path", *storeFlag)
		os.Exit(1)
	}

	links := extract.ProcessAll(string(content))
	if len(links) == 0 {
		slog.Info("no delivery links found in input")
		return
	}

	written, ok := store.AppendMany(ctx, links)
	if !ok {
		slog.Error("some links could not be persisted",
			"found", len(links),
			"written", written,
		)
		os.Exit(1)
	}

	slog.Info("backfill complete",
		"found", len(links),
		"newly_recorded", written,
		"duplicates", len(links)-written,
	)
}
