package receipts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

// fakeGCS serves every object as body and records the paths asked for.
type fakeGCS struct {
	mu        sync.Mutex
	requested []string
	body      string
}

func (f *fakeGCS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requested = append(f.requested, r.URL.Path)
	f.mu.Unlock()
	_, _ = w.Write([]byte(f.body))
}

func (f *fakeGCS) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requested...)
}

func newFakeStorage(t *testing.T, body string) (*GCSStorage, *fakeGCS) {
	t.Helper()
	fake := &fakeGCS{body: body}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	t.Setenv("STORAGE_EMULATOR_HOST", strings.TrimPrefix(srv.URL, "http://"))

	s, err := NewGCSStorage(context.Background(), "receipts-bucket", "", zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGCSStorage failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, fake
}

func TestFetch_OnlyReadsOwnReceipts(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{name: "other bucket", uri: "gs://payroll-private/salaries.csv"},
		{name: "outside prefix", uri: "gs://receipts-bucket/exports/ledger.csv"},
		{name: "prefix look-alike", uri: "gs://receipts-bucket/receipts-old/a.jpg"},
		{name: "dot segments", uri: "gs://receipts-bucket/receipts/../exports/ledger.csv"},
		{name: "not a gs uri", uri: "https://storage.googleapis.com/receipts-bucket/receipts/a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fake := newFakeStorage(t, "SECRET-BYTES")

			data, err := s.Fetch(context.Background(), tt.uri)
			if !errors.Is(err, ErrForeignObject) {
				t.Errorf("Fetch(%q) err = %v, want ErrForeignObject", tt.uri, err)
			}
			if data != nil {
				t.Errorf("Fetch(%q) returned %q", tt.uri, data)
			}
			if got := fake.paths(); len(got) != 0 {
				t.Errorf("storage was asked for %v", got)
			}
		})
	}
}

func TestFetch_StoredReceipt(t *testing.T) {
	s, fake := newFakeStorage(t, "JPEG-BYTES")

	data, err := s.Fetch(context.Background(), "gs://receipts-bucket/receipts/2025/03/14/abc-scan.jpg")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "JPEG-BYTES" {
		t.Errorf("data = %q, want JPEG-BYTES", data)
	}
	want := []string{"/receipts-bucket/receipts/2025/03/14/abc-scan.jpg"}
	if diff := cmp.Diff(want, fake.paths()); diff != "" {
		t.Errorf("requested paths mismatch (-want +got):\n%s", diff)
	}
}

func TestFetch_CapsSize(t *testing.T) {
	s, _ := newFakeStorage(t, "0123456789")
	s.maxBytes = 4

	if _, err := s.Fetch(context.Background(), "gs://receipts-bucket/receipts/big.jpg"); !errors.Is(err, ErrReceiptTooLarge) {
		t.Errorf("err = %v, want ErrReceiptTooLarge", err)
	}

	s.maxBytes = 10
	if data, err := s.Fetch(context.Background(), "gs://receipts-bucket/receipts/big.jpg"); err != nil || len(data) != 10 {
		t.Errorf("Fetch at the cap = (%q, %v), want all 10 bytes", data, err)
	}
}
