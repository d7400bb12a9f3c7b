package receipts

import (
	"testing"
	"time"
)

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{"gs://my-bucket/receipts/2025/03/14/a.jpg", "my-bucket", "receipts/2025/03/14/a.jpg", false},
		{"gs://bucket/file.png", "bucket", "file.png", false},
		{"gs://bucket", "", "", true},
		{"gs://bucket/", "", "", true},
		{"gs:///file.png", "", "", true},
		{"https://storage.googleapis.com/bucket/file.png", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseGCSURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGCSURI(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("ParseGCSURI(%q) = (%q, %q), want (%q, %q)", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestFilenameFromURI(t *testing.T) {
	tests := map[string]string{
		"gs://bucket/folder/file.jpg": "file.jpg",
		"gs://bucket/file.jpg":        "file.jpg",
		"gs://bucket":                 "bucket",
	}
	for in, want := range tests {
		if got := FilenameFromURI(in); got != want {
			t.Errorf("FilenameFromURI(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestObjectNameRoundTrip(t *testing.T) {
	at := time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC)
	object := ObjectName(DefaultPrefix, "abc", "/tmp/scan.jpg", at)
	if object != "receipts/2025/03/14/abc-scan.jpg" {
		t.Fatalf("ObjectName = %q", object)
	}

	bucket, gotObject, err := ParseGCSURI(URI("b", object))
	if err != nil {
		t.Fatalf("ParseGCSURI failed: %v", err)
	}
	if bucket != "b" || gotObject != object {
		t.Errorf("round trip gave (%q, %q)", bucket, gotObject)
	}
	if FilenameFromURI(URI("b", object)) != "abc-scan.jpg" {
		t.Errorf("unexpected filename for %q", object)
	}
}

func TestInPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		object string
		want   bool
	}{
		{"receipts", "receipts/2025/03/14/a.jpg", true},
		{"receipts/", "receipts/a.jpg", true},
		{"receipts", "receipts", false},
		{"receipts", "receipts-old/a.jpg", false},
		{"receipts", "exports/a.csv", false},
		{"receipts", "receipts/../exports/a.csv", false},
		{"receipts", "receipts//a.jpg", false},
		{"", "anything/a.jpg", true},
	}

	for _, tt := range tests {
		if got := InPrefix(tt.prefix, tt.object); got != tt.want {
			t.Errorf("InPrefix(%q, %q) = %v, want %v", tt.prefix, tt.object, got, tt.want)
		}
	}
}
