// Package receipts stores receipt photos on Google Cloud Storage.
package receipts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// DefaultPrefix is the object prefix receipts are uploaded under.
const DefaultPrefix = "receipts"

// MaxReceiptBytes caps how much of a stored object Fetch reads.
const MaxReceiptBytes = 10 << 20

const uploadTimeout = 2 * time.Minute

var (
	// ErrForeignObject is returned by Fetch for a URI outside the receipts
	// bucket and prefix.
	ErrForeignObject = errors.New("object is not a stored receipt")

	// ErrReceiptTooLarge is returned by Fetch when the object exceeds the read cap.
	ErrReceiptTooLarge = errors.New("receipt is too large")
)

// GCSStorage is the Cloud Storage implementation of Storage.
type GCSStorage struct {
	client   *storage.Client
	bucket   string
	prefix   string
	maxBytes int64
	log      zerolog.Logger
}

// NewGCSStorage creates a storage client for bucket. An empty
// credentialsFile falls back to Application Default Credentials.
func NewGCSStorage(ctx context.Context, bucket, credentialsFile string, log zerolog.Logger) (*GCSStorage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("NewGCSStorage: bucket is required")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewGCSStorage: create storage client: %w", err)
	}

	return &GCSStorage{client: client, bucket: bucket, prefix: DefaultPrefix, maxBytes: MaxReceiptBytes, log: log}, nil
}

// Close releases the underlying client.
func (s *GCSStorage) Close() error {
	return s.client.Close()
}

// Upload implements Storage.
func (s *GCSStorage) Upload(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open file %q: %w", filePath, err)
	}
	defer f.Close()

	object := ObjectName(s.prefix, uuid.NewString(), filepath.Base(filePath), time.Now())

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	if ct := mime.TypeByExtension(filepath.Ext(filePath)); ct != "" {
		w.ContentType = ct
	}

	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("copy file to GCS writer: %w", err)
	}

	// Close finalizes the upload
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize upload: %w", err)
	}

	uri := URI(s.bucket, object)
	s.log.Info().Str("gcs_uri", uri).Str("file", filePath).Msg("Receipt uploaded")
	return uri, nil
}

// Fetch implements Storage. Only objects this storage uploaded, that is
// under its bucket and prefix, can be read.
func (s *GCSStorage) Fetch(ctx context.Context, gcsURI string) ([]byte, error) {
	object, err := s.ownedObject(gcsURI)
	if err != nil {
		s.log.Warn().Err(err).Str("gcs_uri", gcsURI).Msg("Rejected receipt fetch")
		return nil, fmt.Errorf("Fetch: %w", err)
	}

	rc, err := s.client.Bucket(s.bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("Fetch: reading object %s/%s: %w", s.bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("Fetch: reading bytes: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("Fetch: %w: over %d bytes", ErrReceiptTooLarge, s.maxBytes)
	}

	return data, nil
}

// ownedObject returns the object name of gcsURI when it lies in the receipts
// bucket under the receipts prefix.
func (s *GCSStorage) ownedObject(gcsURI string) (string, error) {
	bucket, object, err := ParseGCSURI(gcsURI)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrForeignObject, err)
	}
	if bucket != s.bucket {
		return "", fmt.Errorf("%w: bucket %q", ErrForeignObject, bucket)
	}
	if !InPrefix(s.prefix, object) {
		return "", fmt.Errorf("%w: object %q is outside %q", ErrForeignObject, object, s.prefix)
	}
	return object, nil
}

var _ Storage = (*GCSStorage)(nil)
