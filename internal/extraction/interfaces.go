package extraction

import (
	"context"
	"time"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"google.golang.org/genai"
)

// Extractor turns free text or a receipt image into a candidate transaction.
// This interface enables mocking and testing of the AI call.
type Extractor interface {
	// Extract sends the input to the model together with the names of the
	// user's existing categories and returns the structured candidate.
	// Failures are reported as *ExtractionError.
	Extract(ctx context.Context, in Input, knownCategoryNames []string) (domain.ExtractionResult, error)
}

// ModelClient is the slice of the genai API the extractor needs.
// *genai.Models satisfies it.
type ModelClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// ModelOutput is one raw model answer handed to an OutputRecorder.
type ModelOutput struct {
	OutputID  string
	ModelName string
	InputKind string
	RawText   string
	Error     string
	CreatedAt time.Time
}

// OutputRecorder keeps an audit trail of raw model output. Recording is
// best-effort; a recorder error never fails an extraction.
type OutputRecorder interface {
	RecordOutput(ctx context.Context, out ModelOutput) error
}
