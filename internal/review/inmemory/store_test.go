package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/review"
)

func newSession(t *testing.T, id string, created time.Time) *review.Session {
	t.Helper()
	s := review.NewSession(review.DefaultPayee)
	s.ID = id
	s.CreatedAt = created
	if err := s.Begin(domain.ExtractionResult{Merchant: "Cafe", Amount: 10, CategoryName: "Dining Out", CategoryType: domain.CategoryExpense, Date: "2025-03-14"}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	return s
}

func TestStore_SaveGetCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	s := newSession(t, "r-1", time.Now())

	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Mutating the caller's value must not leak into the store
	_ = s.SetAmount(999)

	got, err := store.Get(ctx, "r-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Draft.Amount != 10 {
		t.Errorf("stored amount = %v, want 10", got.Draft.Amount)
	}

	got.Draft.Amount = 5
	again, _ := store.Get(ctx, "r-1")
	if again.Draft.Amount != 10 {
		t.Errorf("Get returned shared state: amount = %v", again.Draft.Amount)
	}
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	if err := store.Save(ctx, &review.Session{}); err == nil {
		t.Error("expected an error saving a session without ID")
	}
	if _, err := store.Get(ctx, "missing"); !errors.Is(err, review.ErrSessionNotFound) {
		t.Errorf("Get missing: err = %v, want ErrSessionNotFound", err)
	}
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete missing: %v", err)
	}
}

func TestStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	base := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"r-1", "r-2", "r-3"} {
		s := newSession(t, id, base.Add(time.Duration(i)*time.Minute))
		if id == "r-2" {
			_ = s.Cancel()
		}
		_ = store.Save(ctx, s)
	}

	all, _ := store.List(ctx, review.Filter{})
	if len(all) != 3 || all[0].ID != "r-1" || all[2].ID != "r-3" {
		t.Fatalf("List order wrong: %v", ids(all))
	}

	open, _ := store.List(ctx, review.Filter{State: review.StateReviewing})
	if len(open) != 2 {
		t.Errorf("reviewing sessions = %v, want r-1 and r-3", ids(open))
	}

	page, _ := store.List(ctx, review.Filter{Offset: 1, Limit: 1})
	if len(page) != 1 || page[0].ID != "r-2" {
		t.Errorf("page = %v, want [r-2]", ids(page))
	}

	empty, _ := store.List(ctx, review.Filter{Offset: 10})
	if len(empty) != 0 {
		t.Errorf("offset past end returned %v", ids(empty))
	}

	_ = store.Delete(ctx, "r-1")
	if _, err := store.Get(ctx, "r-1"); !errors.Is(err, review.ErrSessionNotFound) {
		t.Errorf("deleted session still present: %v", err)
	}
}

func TestStore_PrunesFinishedSessions(t *testing.T) {
	ctx := context.Background()
	store := NewStoreWithRetention(time.Hour)
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	stale := newSession(t, "confirmed-old", now.Add(-3*time.Hour))
	if _, err := stale.Confirm(); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	stale.UpdatedAt = now.Add(-2 * time.Hour)

	recent := newSession(t, "cancelled-recent", now)
	_ = recent.Cancel()
	recent.UpdatedAt = now.Add(-time.Minute)

	open := newSession(t, "open-old", now.Add(-3*time.Hour))
	open.UpdatedAt = now.Add(-3 * time.Hour)

	for _, s := range []*review.Session{stale, recent, open} {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("Save %s failed: %v", s.ID, err)
		}
	}

	if _, err := store.Get(ctx, "confirmed-old"); !errors.Is(err, review.ErrSessionNotFound) {
		t.Errorf("stale finished session kept: err = %v", err)
	}
	for _, id := range []string{"cancelled-recent", "open-old"} {
		if _, err := store.Get(ctx, id); err != nil {
			t.Errorf("%s pruned: %v", id, err)
		}
	}
}

func ids(sessions []*review.Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}
