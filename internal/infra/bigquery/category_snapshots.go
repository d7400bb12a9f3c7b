package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/budget-tracker/internal/domain"
)

const categorySnapshotsTable = "category_snapshots"

// CategorySnapshotRow is one category as it stood when a snapshot was taken.
type CategorySnapshotRow struct {
	SnapshotID string `bigquery:"snapshot_id"` // REQUIRED, shared by every row of one snapshot
	CategoryID string `bigquery:"category_id"` // REQUIRED
	Name       string `bigquery:"name"`        // REQUIRED
	Type       string `bigquery:"type"`        // REQUIRED

	BudgetedAmount float64 `bigquery:"budgeted_amount"` // REQUIRED
	SpentAmount    float64 `bigquery:"spent_amount"`    // REQUIRED

	DueDate     bigquery.NullInt64 `bigquery:"due_date"`     // NULLABLE
	IsRecurring bool               `bigquery:"is_recurring"` // REQUIRED

	TakenTS time.Time `bigquery:"taken_ts"` // REQUIRED
}

// CategorySnapshotRows maps a ledger snapshot to table rows.
func CategorySnapshotRows(snapshotID string, categories []domain.BudgetCategory, takenAt time.Time) []*CategorySnapshotRow {
	rows := make([]*CategorySnapshotRow, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, &CategorySnapshotRow{
			SnapshotID:     snapshotID,
			CategoryID:     c.ID,
			Name:           c.Name,
			Type:           string(c.Type),
			BudgetedAmount: c.BudgetedAmount,
			SpentAmount:    c.SpentAmount,
			DueDate:        bigquery.NullInt64{Int64: int64(c.DueDate), Valid: c.DueDate != 0},
			IsRecurring:    c.IsRecurring,
			TakenTS:        takenAt.UTC(),
		})
	}
	return rows
}

// InsertCategorySnapshotsWithClient streams a batch of snapshot rows into
// <dataset>.category_snapshots.
func InsertCategorySnapshotsWithClient(ctx context.Context, client *bigquery.Client, ref TableRef, rows []*CategorySnapshotRow) error {
	if len(rows) == 0 {
		return nil
	}

	table := client.DatasetInProject(ref.ProjectID, ref.DatasetID).Table(categorySnapshotsTable)
	inserter := table.Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("InsertCategorySnapshots: inserting rows: %w", err)
	}

	return nil
}
