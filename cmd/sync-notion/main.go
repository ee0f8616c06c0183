package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dvloznov/finance-keeper/internal/config"
	"github.com/dvloznov/finance-keeper/internal/infra/firestoredb"
	"github.com/dvloznov/finance-keeper/internal/logger"
	"github.com/dvloznov/finance-keeper/internal/notionsync"
)

func main() {
	_ = godotenv.Load()

	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags
	userID := flag.String("user", "", "User ID whose records to sync (required)")
	notionToken := flag.String("notion-token", os.Getenv("NOTION_TOKEN"), "Notion API token (or set NOTION_TOKEN)")
	notionDBID := flag.String("notion-db-id", os.Getenv("NOTION_DB_ID"), "Notion database ID (or set NOTION_DB_ID)")
	project := flag.String("project", os.Getenv("GOOGLE_PROJECT_ID"), "GCP project ID (or set GOOGLE_PROJECT_ID)")
	dryRun := flag.Bool("dry-run", false, "Dry run mode - preview changes without syncing")
	flag.Parse()

	if *userID == "" {
		log.Fatal().Msg("Error: --user is required")
	}
	if *notionToken == "" {
		log.Fatal().Msg("Error: --notion-token is required")
	}
	if *notionDBID == "" {
		log.Fatal().Msg("Error: --notion-db-id is required")
	}
	if *project == "" {
		cfg := config.Load()
		*project = cfg.ProjectID
	}
	if *project == "" {
		log.Fatal().Msg("Error: --project is required")
	}

	// Create context with timeout so the CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("user_id", *userID).
		Bool("dry_run", *dryRun).
		Msg("Starting Notion sync")

	repo, err := firestoredb.New(ctx, *project)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create record repository")
	}
	defer repo.Close()

	notionClient := notionsync.NewNotionClient(*notionToken)

	if err := notionsync.SyncRecords(ctx, repo, notionClient, *notionDBID, *userID, *dryRun); err != nil {
		log.Fatal().Err(err).Msg("Notion sync failed")
	}

	log.Info().Msg("Notion sync finished")
}
