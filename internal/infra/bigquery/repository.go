package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/extraction"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// TableRef locates the dataset the tracker writes to.
type TableRef struct {
	ProjectID string
	DatasetID string
}

// Qualified returns the backquoted `project.dataset.table` name for SQL.
func (r TableRef) Qualified(table string) string {
	return "`" + r.ProjectID + "." + r.DatasetID + "." + table + "`"
}

// Repository holds a shared BigQuery client to avoid creating a new
// connection for each operation.
type Repository struct {
	client *bigquery.Client
	ref    TableRef
}

// NewRepository creates a BigQuery client for ref. An empty credentialsFile
// falls back to Application Default Credentials.
func NewRepository(ctx context.Context, ref TableRef, credentialsFile string) (*Repository, error) {
	if ref.ProjectID == "" || ref.DatasetID == "" {
		return nil, fmt.Errorf("NewRepository: project and dataset are required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, ref.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{client: client, ref: ref}, nil
}

// Close closes the BigQuery client connection.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// RecordOutput implements extraction.OutputRecorder.
func (r *Repository) RecordOutput(ctx context.Context, out extraction.ModelOutput) error {
	return InsertModelOutputWithClient(ctx, r.client, r.ref, ModelOutputRowFrom(out))
}

// ListRecentModelOutputs delegates to ListRecentModelOutputsWithClient with the shared client.
func (r *Repository) ListRecentModelOutputs(ctx context.Context, limit int) ([]extraction.ModelOutput, error) {
	rows, err := ListRecentModelOutputsWithClient(ctx, r.client, r.ref, limit)
	if err != nil {
		return nil, err
	}
	out := make([]extraction.ModelOutput, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToModelOutput())
	}
	return out, nil
}

// SnapshotCategories writes every category under one new snapshot id and
// returns that id.
func (r *Repository) SnapshotCategories(ctx context.Context, categories []domain.BudgetCategory) (string, error) {
	snapshotID := uuid.NewString()
	rows := CategorySnapshotRows(snapshotID, categories, time.Now())
	if err := InsertCategorySnapshotsWithClient(ctx, r.client, r.ref, rows); err != nil {
		return "", err
	}
	return snapshotID, nil
}

// Migrate applies the embedded table migrations and returns how many ran.
func (r *Repository) Migrate(ctx context.Context, appliedBy string, log zerolog.Logger) (int, error) {
	return MigrateWithClient(ctx, r.client, r.ref, Migrations(), appliedBy, log)
}

// Ensure Repository can audit extractions.
var _ extraction.OutputRecorder = (*Repository)(nil)
