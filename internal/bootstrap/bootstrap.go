// Package bootstrap builds an app.App and its optional cloud collaborators
// from configuration. Both the API server and the CLI start here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/budget-tracker/internal/app"
	"github.com/dvloznov/budget-tracker/internal/config"
	"github.com/dvloznov/budget-tracker/internal/extraction"
	infraBQ "github.com/dvloznov/budget-tracker/internal/infra/bigquery"
	"github.com/dvloznov/budget-tracker/internal/notionsync"
	"github.com/dvloznov/budget-tracker/internal/receipts"
	"github.com/dvloznov/budget-tracker/internal/review"
	"github.com/dvloznov/budget-tracker/internal/session/sqlite"
	"github.com/rs/zerolog"
)

// Services is a built App plus the clients behind it. Nil fields were not
// configured.
type Services struct {
	App      *app.App
	BigQuery *infraBQ.Repository
	Receipts *receipts.GCSStorage
	Notion   *notionsync.NotionClient

	closers []func() error
}

// Build wires the App from cfg. Missing optional integrations are logged and
// skipped; a configured integration that fails to start is an error.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Services, error) {
	s := &Services{}
	opts := []app.Option{
		app.WithLogger(log),
		app.WithSeedData(cfg.SeedData),
		app.WithPayee(review.Payee{
			Address:  cfg.PayeeAddress,
			Name:     cfg.PayeeName,
			Currency: review.DefaultPayee.Currency,
		}),
	}

	if cfg.SessionBackend == config.BackendSQLite {
		store, err := sqlite.Open(cfg.SQLiteDBPath, log)
		if err != nil {
			return nil, fmt.Errorf("Build: session store: %w", err)
		}
		s.closers = append(s.closers, store.Close)
		opts = append(opts, app.WithSessionStore(store))
	}

	if cfg.HasBigQuery() {
		repo, err := infraBQ.NewRepository(ctx, infraBQ.TableRef{
			ProjectID: cfg.BigQueryProject,
			DatasetID: cfg.BigQueryDataset,
		}, cfg.GCPCredentialsFile)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("Build: bigquery: %w", err)
		}
		s.BigQuery = repo
		s.closers = append(s.closers, repo.Close)
	}

	if cfg.GeminiAPIKey != "" {
		extOpts := []extraction.Option{extraction.WithLogger(log)}
		if cfg.GeminiModel != "" {
			extOpts = append(extOpts, extraction.WithModelName(cfg.GeminiModel))
		}
		if s.BigQuery != nil {
			extOpts = append(extOpts, extraction.WithRecorder(s.BigQuery))
		}
		ext, err := extraction.NewGeminiExtractorFromAPIKey(ctx, cfg.GeminiAPIKey, extOpts...)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("Build: extractor: %w", err)
		}
		opts = append(opts, app.WithExtractor(ext))
	} else {
		log.Warn().Msg("No Gemini API key configured - extraction will be disabled")
	}

	if cfg.GCSBucket != "" {
		store, err := receipts.NewGCSStorage(ctx, cfg.GCSBucket, cfg.GCPCredentialsFile, log)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("Build: receipts: %w", err)
		}
		s.Receipts = store
		s.closers = append(s.closers, store.Close)
		opts = append(opts, app.WithReceipts(store))
	} else {
		log.Warn().Msg("No GCS bucket configured - receipt uploads will be disabled")
	}

	if cfg.HasNotion() {
		s.Notion = notionsync.NewNotionClient(cfg.NotionToken)
	}

	s.App = app.New(opts...)
	return s, nil
}

// Close releases every client in reverse order of creation.
func (s *Services) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
