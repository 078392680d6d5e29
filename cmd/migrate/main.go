// Command migrate applies db/schema.sql to the database named by the
// standard DB_* environment variables. It drives the atlas CLI, which must
// be on PATH, and needs a scratch database for diffing (ATLAS_DEV_URL,
// defaulting to an in-docker postgres).
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"ariga.io/atlas-go-sdk/atlasexec"

	"shop-order-engine/internal/pkg/config"
)

const defaultDevURL = "docker://postgres/17/dev?search_path=public"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	devURL := os.Getenv("ATLAS_DEV_URL")
	if devURL == "" {
		devURL = defaultDevURL
	}

	client, err := atlasexec.NewClient(".", "atlas")
	if err != nil {
		slog.Error("failed to init atlas client", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	res, err := client.SchemaApply(ctx, &atlasexec.SchemaApplyParams{
		URL:    cfg.DB.BuildDSN(),
		To:     "file://db/schema.sql",
		DevURL: devURL,
	})
	if err != nil {
		slog.Error("schema apply failed", "error", err)
		os.Exit(1)
	}

	slog.Info("schema applied",
		"database", cfg.DB.DBName,
		"applied", len(res.Changes.Applied),
		"pending", len(res.Changes.Pending),
	)
}
