package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// GeminiExtractor is the concrete implementation of Extractor that uses Gemini.
// It is stateless: one call, one response, no retry and no caching.
type GeminiExtractor struct {
	models     ModelClient
	modelName  string
	localeHint string
	recorder   OutputRecorder
	log        zerolog.Logger
}

// Option customises a GeminiExtractor.
type Option func(*GeminiExtractor)

// WithModelName overrides DefaultModelName.
func WithModelName(name string) Option {
	return func(g *GeminiExtractor) {
		if name != "" {
			g.modelName = name
		}
	}
}

// WithLocaleHint overrides DefaultLocaleHint.
func WithLocaleHint(hint string) Option {
	return func(g *GeminiExtractor) {
		if hint != "" {
			g.localeHint = hint
		}
	}
}

// WithRecorder attaches an audit sink for raw model output.
func WithRecorder(r OutputRecorder) Option {
	return func(g *GeminiExtractor) {
		g.recorder = r
	}
}

// WithLogger sets the logger used for extraction diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(g *GeminiExtractor) {
		g.log = log
	}
}

// NewGeminiExtractor creates an extractor on top of an existing model client.
func NewGeminiExtractor(models ModelClient, opts ...Option) *GeminiExtractor {
	g := &GeminiExtractor{
		models:     models,
		modelName:  DefaultModelName,
		localeHint: DefaultLocaleHint,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewGeminiExtractorFromAPIKey creates the genai client for the Gemini API
// and wraps it in an extractor.
func NewGeminiExtractorFromAPIKey(ctx context.Context, apiKey string, opts ...Option) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiExtractorFromAPIKey: create genai client: %w", err)
	}
	return NewGeminiExtractor(client.Models, opts...), nil
}

// Extract implements Extractor.
func (g *GeminiExtractor) Extract(ctx context.Context, in Input, knownCategoryNames []string) (domain.ExtractionResult, error) {
	if err := in.validate(); err != nil {
		return domain.ExtractionResult{}, &ExtractionError{Kind: KindInput, Err: err}
	}

	contents := g.buildContents(in, knownCategoryNames)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}

	log := g.log.With().Str("input_kind", in.Kind()).Str("model", g.modelName).Logger()
	start := time.Now()

	resp, err := g.models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		log.Error().Err(err).Dur("duration", time.Since(start)).Msg("Model call failed")
		g.record(ctx, in, "", err)
		return domain.ExtractionResult{}, &ExtractionError{Kind: KindUnavailable, Err: fmt.Errorf("generate content: %w", err)}
	}

	rawText := ""
	if resp != nil {
		rawText = resp.Text()
	}

	result, err := decodeResult(rawText)
	g.record(ctx, in, rawText, err)
	if err != nil {
		log.Warn().Err(err).Str("raw_response", truncate(rawText, 500)).Msg("Model output rejected")
		return domain.ExtractionResult{}, err
	}

	log.Info().
		Dur("duration", time.Since(start)).
		Str("merchant", result.Merchant).
		Str("category", result.CategoryName).
		Msg("Transaction extracted")

	return result, nil
}

func (g *GeminiExtractor) buildContents(in Input, knownCategoryNames []string) []*genai.Content {
	if in.IsImage() {
		parts := []*genai.Part{
			genai.NewPartFromBytes(in.Image, in.MIMEType),
			genai.NewPartFromText(buildImagePrompt(knownCategoryNames, g.localeHint)),
		}
		return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	}
	return genai.Text(buildTextPrompt(in.Text, knownCategoryNames, g.localeHint))
}

func (g *GeminiExtractor) record(ctx context.Context, in Input, rawText string, callErr error) {
	if g.recorder == nil {
		return
	}
	out := ModelOutput{
		OutputID:  uuid.NewString(),
		ModelName: g.modelName,
		InputKind: in.Kind(),
		RawText:   rawText,
		CreatedAt: time.Now(),
	}
	if callErr != nil {
		out.Error = callErr.Error()
	}
	if err := g.recorder.RecordOutput(ctx, out); err != nil {
		g.log.Warn().Err(err).Str("output_id", out.OutputID).Msg("Failed to record model output")
	}
}

// decodeResult parses the raw model text into an ExtractionResult.
func decodeResult(rawText string) (domain.ExtractionResult, error) {
	clean := cleanModelJSON(rawText)
	if clean == "" {
		return domain.ExtractionResult{}, &ExtractionError{Kind: KindMalformed, Err: fmt.Errorf("empty response from model")}
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(clean), &obj); err != nil {
		return domain.ExtractionResult{}, &ExtractionError{Kind: KindMalformed, Err: fmt.Errorf("unmarshal JSON: %w", err)}
	}
	if obj == nil {
		return domain.ExtractionResult{}, &ExtractionError{Kind: KindMalformed, Err: fmt.Errorf("response is not a JSON object")}
	}

	return transformModelOutput(obj)
}

// cleanModelJSON strips Markdown fences or stray text the model may put
// around the JSON object despite the response MIME type.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Keep only from the first '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// Ensure GeminiExtractor implements Extractor.
var _ Extractor = (*GeminiExtractor)(nil)
