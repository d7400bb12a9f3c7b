package receipts

import (
	"fmt"
	"path"
	"strings"
	"time"
)

const uriScheme = "gs://"

// ParseGCSURI splits "gs://bucket/path/to/file.jpg" into bucket and object.
func ParseGCSURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, uriScheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}

// FilenameFromURI returns the last path element of a GCS URI,
// e.g. "gs://bucket/receipts/a.jpg" gives "a.jpg".
func FilenameFromURI(uri string) string {
	trimmed := strings.TrimPrefix(uri, uriScheme)

	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return path.Base(parts[1])
}

// ObjectName builds the object path a receipt is stored under:
// <prefix>/YYYY/MM/DD/<id>-<filename>.
func ObjectName(prefix, id, filename string, at time.Time) string {
	return path.Join(prefix, at.UTC().Format("2006/01/02"), id+"-"+path.Base(filename))
}

// InPrefix reports whether object lies under prefix. Objects with "." or
// ".." path elements never match.
func InPrefix(prefix, object string) bool {
	if path.Clean("/"+object) != "/"+object {
		return false
	}
	if prefix == "" {
		return true
	}
	return strings.HasPrefix(object, strings.TrimSuffix(prefix, "/")+"/")
}

// URI builds the gs:// URI of an object.
func URI(bucket, object string) string {
	return uriScheme + bucket + "/" + object
}
