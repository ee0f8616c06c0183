package notionsync

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/finance-keeper/internal/domain"
	"github.com/dvloznov/finance-keeper/internal/logger"
	"github.com/dvloznov/finance-keeper/internal/store"
)

// SyncRecords mirrors one user's full record set into a Notion database:
//  1. Queries all existing pages in the database
//  2. Deletes stale pages whose record no longer exists
//  3. Creates pages for new records and updates pages for existing ones
//
// The Record ID property on each page keeps the sync idempotent.
func SyncRecords(ctx context.Context, repo store.RecordRepository, notionClient NotionService, notionDBID, userID string, dryRun bool) error {
	log := logger.FromContext(ctx)

	log.Info().
		Str("user_id", userID).
		Bool("dry_run", dryRun).
		Msg("Starting records sync to Notion")

	var records []*domain.Record
	for _, rt := range []domain.RecordType{
		domain.RecordTypeTransaction,
		domain.RecordTypeDebt,
		domain.RecordTypeReceivable,
	} {
		recs, err := repo.ListRecords(ctx, userID, rt)
		if err != nil {
			return fmt.Errorf("failed to list %s records: %w", rt, err)
		}
		records = append(records, recs...)
	}

	log.Info().Int("record_count", len(records)).Msg("Retrieved records")

	validIDs := make(map[string]bool)
	for _, rec := range records {
		validIDs[rec.ID] = true
	}

	log.Info().Msg("Querying existing pages from Notion")
	notionPages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return fmt.Errorf("failed to query Notion pages: %w", err)
	}

	log.Info().Int("notion_page_count", len(notionPages)).Msg("Retrieved existing Notion pages")

	// Map record ID -> page ID for the update path.
	existingPages := make(map[string]string)
	for _, page := range notionPages {
		if id := extractRecordID(page); id != "" {
			existingPages[id] = string(page.ID)
		}
	}

	// Delete stale pages: no Record ID, or the record is gone.
	var deleted int
	for _, page := range notionPages {
		recID := extractRecordID(page)
		if recID != "" && validIDs[recID] {
			continue
		}

		if dryRun {
			log.Info().
				Str("record_id", recID).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would delete stale Notion page")
			deleted++
			continue
		}

		if err := notionClient.DeletePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("record_id", recID).
				Str("page_id", string(page.ID)).
				Msg("Failed to delete stale Notion page")
			continue
		}
		deleted++
	}

	var created, updated int
	for _, rec := range records {
		pageID, exists := existingPages[rec.ID]

		if dryRun {
			if exists {
				log.Info().Str("record_id", rec.ID).Str("page_id", pageID).
					Msg("[DRY RUN] Would update Notion page")
				updated++
			} else {
				log.Info().Str("record_id", rec.ID).
					Msg("[DRY RUN] Would create Notion page")
				created++
			}
			continue
		}

		props := RecordToNotionProperties(rec)

		if exists {
			if _, err := notionClient.UpdatePage(ctx, pageID, props); err != nil {
				log.Warn().
					Err(err).
					Str("record_id", rec.ID).
					Str("page_id", pageID).
					Msg("Failed to update Notion page")
				continue
			}
			updated++
		} else {
			page, err := notionClient.CreatePage(ctx, notionDBID, props)
			if err != nil {
				log.Warn().
					Err(err).
					Str("record_id", rec.ID).
					Msg("Failed to create Notion page")
				continue
			}
			log.Info().
				Str("record_id", rec.ID).
				Str("page_id", string(page.ID)).
				Msg("Created Notion page")
			created++
		}
	}

	log.Info().
		Int("deleted", deleted).
		Int("created", created).
		Int("updated", updated).
		Int("total", len(records)).
		Msg("Records sync completed")

	return nil
}

// queryAllNotionPages pages through the whole database.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
