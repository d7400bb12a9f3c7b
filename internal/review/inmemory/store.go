package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dvloznov/budget-tracker/internal/review"
)

// DefaultRetention is how long a confirmed or cancelled session stays
// readable before Save prunes it.
const DefaultRetention = 15 * time.Minute

// Store is an in-memory implementation of review.Store.
// It is safe for concurrent use. Sessions are lost on restart.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]*review.Session
	retention time.Duration
	now       func() time.Time
}

// NewStore creates a new in-memory session store.
func NewStore() *Store {
	return NewStoreWithRetention(DefaultRetention)
}

// NewStoreWithRetention creates a store that keeps finished sessions for d.
func NewStoreWithRetention(d time.Duration) *Store {
	return &Store{
		sessions:  make(map[string]*review.Session),
		retention: d,
		now:       time.Now,
	}
}

// Save implements review.Store.
func (s *Store) Save(ctx context.Context, session *review.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("Save: session ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep our own copy so callers cannot mutate stored state
	sessionCopy := *session
	s.sessions[session.ID] = &sessionCopy

	s.pruneLocked()
	return nil
}

// pruneLocked drops finished sessions older than the retention window.
// Open sessions are never pruned.
func (s *Store) pruneLocked() {
	cutoff := s.now().Add(-s.retention)
	for id, session := range s.sessions {
		if session.Done() && session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}

// Get implements review.Store.
func (s *Store) Get(ctx context.Context, id string) (*review.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists {
		return nil, fmt.Errorf("Get %s: %w", id, review.ErrSessionNotFound)
	}

	sessionCopy := *session
	return &sessionCopy, nil
}

// Delete implements review.Store.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// List implements review.Store.
func (s *Store) List(ctx context.Context, filter review.Filter) ([]*review.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*review.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if filter.State != "" && session.State != filter.State {
			continue
		}
		sessionCopy := *session
		result = append(result, &sessionCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	// Apply limit and offset
	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*review.Session{}, nil
		}
		result = result[filter.Offset:]
	}

	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}

	return result, nil
}

// Ensure Store implements review.Store.
var _ review.Store = (*Store)(nil)
