package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-collegecms/pkg/console"
)

func main() {
	baseURL := flag.String("base-url", "", "CMS API base URL (overrides COLLEGECMS_BASE_URL)")
	token := flag.String("token", "", "session bearer token (overrides COLLEGECMS_TOKEN)")
	draftDir := flag.String("draft-dir", "", "directory for draft snapshots (overrides COLLEGECMS_DRAFT_DIR)")
	flag.Parse()

	cfg, err := console.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *token != "" {
		cfg.Token = *token
	}
	if *draftDir != "" {
		cfg.DraftDir = *draftDir
	}

	app, err := console.New(cfg)
	if err != nil {
		log.Fatalf("Failed to start console: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Console session failed: %v", err)
	}
}
