package review

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned by a Store for an unknown session id.
var ErrSessionNotFound = errors.New("review session not found")

// Filter narrows a List call.
type Filter struct {
	State  State
	Limit  int
	Offset int
}

// Store keeps review sessions between requests.
type Store interface {
	// Save creates or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get returns a copy of the session with the given id.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns sessions matching the filter, oldest first.
	List(ctx context.Context, filter Filter) ([]*Session, error)
}
