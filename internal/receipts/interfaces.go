package receipts

import (
	"context"
)

// Storage keeps receipt images so they can be extracted again later.
// This interface enables mocking in tests of the code that uses it.
type Storage interface {
	// Upload stores a local file and returns its gs:// URI.
	Upload(ctx context.Context, filePath string) (string, error)

	// Fetch downloads the bytes behind a gs:// URI.
	Fetch(ctx context.Context, gcsURI string) ([]byte, error)
}
