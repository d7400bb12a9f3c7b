package extraction

import "fmt"

// ErrorKind classifies why an extraction failed.
type ErrorKind string

const (
	// KindUnavailable means the model could not be reached or refused the call.
	KindUnavailable ErrorKind = "unavailable"
	// KindMalformed means the model answered with empty or non-JSON output.
	KindMalformed ErrorKind = "malformed"
	// KindMissingField means a required field was absent or empty.
	KindMissingField ErrorKind = "missing_field"
	// KindSchema means a field was present but violated the output schema.
	KindSchema ErrorKind = "schema"
	// KindInput means the caller's input could not be sent at all.
	KindInput ErrorKind = "input"
)

// ExtractionError is returned for every failed extraction. Callers surface it
// to the user; it is never retried.
type ExtractionError struct {
	Kind  ErrorKind
	Field string // set for KindMissingField and KindSchema
	Err   error
}

func (e *ExtractionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("extraction %s (%s): %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("extraction %s: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
