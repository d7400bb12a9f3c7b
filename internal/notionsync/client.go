package notionsync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dvloznov/budget-tracker/internal/logger"
	"github.com/jomei/notionapi"
)

// ErrSchemaMismatch is returned when the budget database lacks a column the
// category export writes.
var ErrSchemaMismatch = errors.New("notion database is missing budget columns")

// NotionClient talks to the budget database through the Notion API.
type NotionClient struct {
	client *notionapi.Client
}

// NewNotionClient creates a client authenticated with an integration token.
func NewNotionClient(token string) *NotionClient {
	return &NotionClient{
		client: notionapi.NewClient(notionapi.Token(token)),
	}
}

// CheckDatabase fetches the database and fails with ErrSchemaMismatch when a
// category column is missing, before any page is written.
func (n *NotionClient) CheckDatabase(ctx context.Context, databaseID string) error {
	db, err := n.client.Database.Get(ctx, notionapi.DatabaseID(databaseID))
	if err != nil {
		return fmt.Errorf("CheckDatabase %s: %w", databaseID, err)
	}

	columns := make([]string, 0, len(db.Properties))
	for name := range db.Properties {
		columns = append(columns, name)
	}
	if missing := MissingColumns(columns); len(missing) > 0 {
		return fmt.Errorf("CheckDatabase %s: %w: %s", databaseID, ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}

// CreatePage adds a category row to the database.
func (n *NotionClient) CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
	page, err := n.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(databaseID),
		},
		Properties: properties,
	})
	if err != nil {
		return nil, fmt.Errorf("CreatePage in %s: %w", databaseID, err)
	}

	log := logger.FromContext(ctx)
	log.Debug().Str("page_id", string(page.ID)).Str("database_id", databaseID).Msg("Notion category page created")
	return page, nil
}

// UpdatePage overwrites the category columns of an existing row.
func (n *NotionClient) UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) (*notionapi.Page, error) {
	page, err := n.client.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Properties: properties,
	})
	if err != nil {
		return nil, fmt.Errorf("UpdatePage %s: %w", pageID, err)
	}
	return page, nil
}

// QueryDatabase returns one page of rows.
func (n *NotionClient) QueryDatabase(ctx context.Context, databaseID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	resp, err := n.client.Database.Query(ctx, notionapi.DatabaseID(databaseID), req)
	if err != nil {
		return nil, fmt.Errorf("QueryDatabase %s: %w", databaseID, err)
	}
	return resp, nil
}

// ArchivePage archives the row of a category that left the ledger. Notion
// keeps archived pages in its trash, so this can be undone there.
func (n *NotionClient) ArchivePage(ctx context.Context, pageID string) error {
	if _, err := n.client.Page.Update(ctx, notionapi.PageID(pageID), &notionapi.PageUpdateRequest{
		Archived: true,
	}); err != nil {
		return fmt.Errorf("ArchivePage %s: %w", pageID, err)
	}
	return nil
}

var _ NotionService = (*NotionClient)(nil)
