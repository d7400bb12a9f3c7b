// Package app is the single controller that owns the tracker's state. Every
// entry surface (HTTP, CLI) drives the ledger, reviews, notifications and
// session through it.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/extraction"
	"github.com/dvloznov/budget-tracker/internal/ledger"
	"github.com/dvloznov/budget-tracker/internal/notify"
	"github.com/dvloznov/budget-tracker/internal/receipts"
	"github.com/dvloznov/budget-tracker/internal/review"
	"github.com/dvloznov/budget-tracker/internal/review/inmemory"
	"github.com/dvloznov/budget-tracker/internal/session"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrExtractionInFlight is returned when an extraction is started while
	// another one is still waiting on the model.
	ErrExtractionInFlight = errors.New("an extraction is already in progress")

	// ErrExtractorUnavailable is returned when no model is configured.
	ErrExtractorUnavailable = errors.New("extraction is not configured")

	// ErrReceiptsUnavailable is returned when no receipt storage is configured.
	ErrReceiptsUnavailable = errors.New("receipt storage is not configured")
)

// App owns the application state and exposes it through command methods and
// a read-only snapshot.
type App struct {
	ledger    *ledger.Ledger
	feed      *notify.Feed
	sessions  *session.Manager
	reviews   review.Store
	extractor extraction.Extractor
	receipts  receipts.Storage
	payee     review.Payee
	seed      bool
	quote     string
	log       zerolog.Logger

	// Weight 1: at most one extraction waits on the model at a time.
	inflight *semaphore.Weighted

	// reviewMu serializes review transitions so a session commits once.
	reviewMu sync.Mutex
}

// Option customises an App.
type Option func(*App)

// WithExtractor sets the model used by Extract.
func WithExtractor(e extraction.Extractor) Option {
	return func(a *App) { a.extractor = e }
}

// WithReceipts sets the receipt image storage.
func WithReceipts(s receipts.Storage) Option {
	return func(a *App) { a.receipts = s }
}

// WithReviewStore replaces the in-memory review store.
func WithReviewStore(s review.Store) Option {
	return func(a *App) { a.reviews = s }
}

// WithSessionStore sets where the user profile is kept.
func WithSessionStore(kv session.KVStore) Option {
	return func(a *App) { a.sessions = session.NewManager(kv) }
}

// WithPayee sets who split payments are requested for.
func WithPayee(p review.Payee) Option {
	return func(a *App) { a.payee = p }
}

// WithSeedData starts the app with the demo categories and notifications.
func WithSeedData(seed bool) Option {
	return func(a *App) { a.seed = seed }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(a *App) { a.log = log }
}

// New creates an App. Without options it has an empty ledger, in-memory
// review and session stores, and no extractor.
func New(opts ...Option) *App {
	a := &App{
		feed:     notify.NewFeed(),
		reviews:  inmemory.NewStore(),
		sessions: session.NewManager(session.NewMemoryStore()),
		payee:    review.DefaultPayee,
		quote:    financialQuotes[rand.IntN(len(financialQuotes))],
		log:      zerolog.Nop(),
		inflight: semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.seed {
		a.ledger = ledger.NewWithCategories(ledger.DefaultCategories())
		a.feed.Seed()
	} else {
		a.ledger = ledger.New()
	}
	return a
}

// Extract runs one extraction against the current category names. A second
// call while one is outstanding fails fast with ErrExtractionInFlight.
func (a *App) Extract(ctx context.Context, in extraction.Input) (domain.ExtractionResult, error) {
	if a.extractor == nil {
		return domain.ExtractionResult{}, ErrExtractorUnavailable
	}
	if !a.inflight.TryAcquire(1) {
		return domain.ExtractionResult{}, ErrExtractionInFlight
	}
	defer a.inflight.Release(1)

	result, err := a.extractor.Extract(ctx, in, a.ledger.Names())
	if err != nil {
		a.log.Warn().Err(err).Str("input_kind", in.Kind()).Msg("Extraction failed")
		return domain.ExtractionResult{}, fmt.Errorf("Extract: %w", err)
	}
	return result, nil
}

// ExtractForReview extracts and, only on success, opens a review session.
func (a *App) ExtractForReview(ctx context.Context, in extraction.Input) (*review.Session, error) {
	result, err := a.Extract(ctx, in)
	if err != nil {
		return nil, err
	}
	return a.BeginReview(ctx, result)
}

// ExtractFromReceipt downloads a stored receipt image and opens a review
// session for it.
func (a *App) ExtractFromReceipt(ctx context.Context, gcsURI string) (*review.Session, error) {
	if a.receipts == nil {
		return nil, ErrReceiptsUnavailable
	}
	data, err := a.receipts.Fetch(ctx, gcsURI)
	if err != nil {
		return nil, fmt.Errorf("ExtractFromReceipt: %w", err)
	}
	return a.ExtractForReview(ctx, extraction.ImageInput(data, ""))
}

// UploadReceipt stores a local receipt image and returns its gs:// URI.
func (a *App) UploadReceipt(ctx context.Context, filePath string) (string, error) {
	if a.receipts == nil {
		return "", ErrReceiptsUnavailable
	}
	return a.receipts.Upload(ctx, filePath)
}

// Ledger exposes the category ledger for read-only collaborators such as
// exporters.
func (a *App) Ledger() *ledger.Ledger {
	return a.ledger
}
