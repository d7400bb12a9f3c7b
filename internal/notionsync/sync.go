// Package notionsync exports the budget ledger to a Notion database.
package notionsync

import (
	"context"
	"fmt"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/logger"
	"github.com/jomei/notionapi"
)

// queryPageSize is the page size used when listing the database.
const queryPageSize = 100

// Result counts what a sync did (or would do, on a dry run).
type Result struct {
	Created  int
	Updated  int
	Archived int
	Failed   int
}

// SyncCategories mirrors categories into the Notion database notionDBID.
// This function:
// 0. Checks the database has the budget columns
// 1. Queries all existing pages of the database
// 2. Updates pages whose Category ID is still in the ledger, creates the rest
// 3. Archives pages for categories that were deleted from the ledger
// Pages without a Category ID were added by hand and are left alone.
// A failure on one page is logged and counted; the sync carries on.
func SyncCategories(ctx context.Context, notionClient NotionService, notionDBID string, categories []domain.BudgetCategory, dryRun bool) (Result, error) {
	log := logger.FromContext(ctx)
	var res Result

	log.Info().
		Int("category_count", len(categories)).
		Bool("dry_run", dryRun).
		Msg("Starting ledger sync to Notion")

	if err := notionClient.CheckDatabase(ctx, notionDBID); err != nil {
		return res, fmt.Errorf("SyncCategories: %w", err)
	}

	pages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return res, fmt.Errorf("SyncCategories: %w", err)
	}

	log.Info().Int("notion_page_count", len(pages)).Msg("Retrieved existing Notion pages")

	// Map category ID -> Notion page ID for idempotent updates
	existing := make(map[string]string, len(pages))
	for _, page := range pages {
		if id := extractCategoryID(page); id != "" {
			existing[id] = string(page.ID)
		}
	}

	current := make(map[string]bool, len(categories))
	for _, c := range categories {
		current[c.ID] = true
		props := CategoryToNotionProperties(c)
		clog := log.With().Str("category_id", c.ID).Str("category", c.Name).Logger()

		pageID, found := existing[c.ID]
		switch {
		case dryRun && found:
			clog.Info().Str("page_id", pageID).Msg("[DRY RUN] Would update Notion page")
			res.Updated++
		case dryRun:
			clog.Info().Msg("[DRY RUN] Would create Notion page")
			res.Created++
		case found:
			if _, err := notionClient.UpdatePage(ctx, pageID, props); err != nil {
				clog.Warn().Err(err).Str("page_id", pageID).Msg("Failed to update Notion page")
				res.Failed++
				continue
			}
			clog.Debug().Str("page_id", pageID).Msg("Updated Notion page")
			res.Updated++
		default:
			page, err := notionClient.CreatePage(ctx, notionDBID, props)
			if err != nil {
				clog.Warn().Err(err).Msg("Failed to create Notion page")
				res.Failed++
				continue
			}
			clog.Debug().Str("page_id", string(page.ID)).Msg("Created Notion page")
			res.Created++
		}
	}

	// Archive pages of deleted categories
	for _, page := range pages {
		id := extractCategoryID(page)
		if id == "" || current[id] {
			continue
		}

		plog := log.With().Str("category_id", id).Str("page_id", string(page.ID)).Logger()
		if dryRun {
			plog.Info().Msg("[DRY RUN] Would archive stale Notion page")
			res.Archived++
			continue
		}
		if err := notionClient.ArchivePage(ctx, string(page.ID)); err != nil {
			plog.Warn().Err(err).Msg("Failed to archive stale Notion page")
			res.Failed++
			continue
		}
		plog.Debug().Msg("Archived stale Notion page")
		res.Archived++
	}

	log.Info().
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("archived", res.Archived).
		Int("failed", res.Failed).
		Msg("Ledger sync to Notion completed")

	return res, nil
}

// queryAllNotionPages retrieves all pages of a database, following cursors.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: queryPageSize,
		}

		// Only set StartCursor if we have a cursor value
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
