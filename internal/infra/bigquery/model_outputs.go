package bigquery

import (
	"encoding/json"

	"cloud.google.com/go/bigquery"
	"github.com/dvloznov/budget-tracker/internal/extraction"
)

type ModelOutputRow struct {
	OutputID  string `bigquery:"output_id"`  // REQUIRED
	ModelName string `bigquery:"model_name"` // REQUIRED
	InputKind string `bigquery:"input_kind"` // REQUIRED: text | image

	RawJSON bigquery.NullJSON   `bigquery:"raw_json"` // NULLABLE, set when the answer is valid JSON
	RawText bigquery.NullString `bigquery:"raw_text"` // NULLABLE
	Error   bigquery.NullString `bigquery:"error"`    // NULLABLE

	CreatedTS bigquery.NullTimestamp `bigquery:"created_ts"` // REQUIRED
}

// ModelOutputRowFrom maps an extraction audit record to a table row.
func ModelOutputRowFrom(out extraction.ModelOutput) *ModelOutputRow {
	row := &ModelOutputRow{
		OutputID:  out.OutputID,
		ModelName: out.ModelName,
		InputKind: out.InputKind,
		RawText:   bigquery.NullString{StringVal: out.RawText, Valid: out.RawText != ""},
		Error:     bigquery.NullString{StringVal: out.Error, Valid: out.Error != ""},
		CreatedTS: bigquery.NullTimestamp{Timestamp: out.CreatedAt, Valid: !out.CreatedAt.IsZero()},
	}
	if out.RawText != "" && json.Valid([]byte(out.RawText)) {
		row.RawJSON = bigquery.NullJSON{JSONVal: out.RawText, Valid: true}
	}
	return row
}

// ToModelOutput maps a row back to the extraction audit record.
func (r *ModelOutputRow) ToModelOutput() extraction.ModelOutput {
	return extraction.ModelOutput{
		OutputID:  r.OutputID,
		ModelName: r.ModelName,
		InputKind: r.InputKind,
		RawText:   r.RawText.StringVal,
		Error:     r.Error.StringVal,
		CreatedAt: r.CreatedTS.Timestamp,
	}
}
