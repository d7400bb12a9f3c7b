package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

const modelOutputsTable = "model_outputs"

// InsertModelOutputWithClient inserts a single ModelOutputRow into
// <dataset>.model_outputs. Uses DML INSERT so rows are immediately queryable
// without a streaming buffer.
func InsertModelOutputWithClient(ctx context.Context, client *bigquery.Client, ref TableRef, row *ModelOutputRow) error {
	q := client.Query(`
		INSERT INTO ` + ref.Qualified(modelOutputsTable) + ` (
			output_id, model_name, input_kind,
			raw_json, raw_text, error, created_ts
		)
		VALUES (
			@output_id, @model_name, @input_kind,
			@raw_json, @raw_text, @error, @created_ts
		)
	`)

	q.Parameters = []bigquery.QueryParameter{
		{Name: "output_id", Value: row.OutputID},
		{Name: "model_name", Value: row.ModelName},
		{Name: "input_kind", Value: row.InputKind},
		{Name: "raw_json", Value: row.RawJSON},
		{Name: "raw_text", Value: row.RawText},
		{Name: "error", Value: row.Error},
		{Name: "created_ts", Value: row.CreatedTS},
	}

	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("InsertModelOutput: running insert query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("InsertModelOutput: waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("InsertModelOutput: job error: %w", err)
	}

	return nil
}

// ListRecentModelOutputsWithClient returns the newest model outputs first.
func ListRecentModelOutputsWithClient(ctx context.Context, client *bigquery.Client, ref TableRef, limit int) ([]*ModelOutputRow, error) {
	if limit <= 0 {
		limit = 20
	}

	q := client.Query(`
		SELECT
		  output_id,
		  model_name,
		  input_kind,
		  raw_json,
		  raw_text,
		  error,
		  created_ts
		FROM ` + ref.Qualified(modelOutputsTable) + `
		ORDER BY created_ts DESC
		LIMIT @limit
	`)
	q.Parameters = []bigquery.QueryParameter{{Name: "limit", Value: limit}}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListRecentModelOutputs: query read: %w", err)
	}

	var rows []*ModelOutputRow
	for {
		var r ModelOutputRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListRecentModelOutputs: iter next: %w", err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}
