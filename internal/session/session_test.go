package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestManager() (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	m := NewManager(store)
	m.now = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }
	return m, store
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		userName string
		signup   bool
		wantName string
	}{
		{"login uses default name", "alex@example.com", "ignored", false, DefaultLoginName},
		{"signup uses given name", "priya@example.com", " Priya ", true, "Priya"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m, _ := newTestManager()

			user, err := m.Login(ctx, tt.email, tt.userName, tt.signup)
			if err != nil {
				t.Fatalf("Login failed: %v", err)
			}
			if user.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", user.Name, tt.wantName)
			}
			if !strings.HasPrefix(user.ID, "user-") || len(user.ID) != len("user-")+9 {
				t.Errorf("unexpected ID %q", user.ID)
			}
			if user.Currency != "INR" || user.JoinedDate != "2025-03-14T09:30:00Z" {
				t.Errorf("unexpected user: %+v", user)
			}
			if user.Avatar != AvatarURL(tt.email) {
				t.Errorf("Avatar = %q", user.Avatar)
			}

			current, err := m.Current(ctx)
			if err != nil {
				t.Fatalf("Current failed: %v", err)
			}
			if diff := cmp.Diff(user, current); diff != "" {
				t.Errorf("persisted user mismatch (-login +current):\n%s", diff)
			}
		})
	}
}

func TestLogin_Rejects(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager()

	if _, err := m.Login(ctx, "  ", "", false); !errors.Is(err, ErrEmailRequired) {
		t.Errorf("blank email: err = %v, want ErrEmailRequired", err)
	}
	if _, err := m.Login(ctx, "a@b.c", " ", true); !errors.Is(err, ErrNameRequired) {
		t.Errorf("blank signup name: err = %v, want ErrNameRequired", err)
	}
	if _, err := store.Get(ctx, StorageKey); !errors.Is(err, ErrKeyNotFound) {
		t.Error("rejected login must not persist a profile")
	}
}

func TestUpdateProfileAndLogout(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager()

	if _, err := m.UpdateProfile(ctx, "x", "y"); !errors.Is(err, ErrNoSession) {
		t.Errorf("UpdateProfile without session: err = %v, want ErrNoSession", err)
	}

	orig, _ := m.Login(ctx, "alex@example.com", "", false)
	updated, err := m.UpdateProfile(ctx, "Alex J", "")
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Name != "Alex J" || updated.Email != orig.Email || updated.ID != orig.ID {
		t.Errorf("unexpected update: %+v", updated)
	}

	if err := m.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := m.Current(ctx); !errors.Is(err, ErrNoSession) {
		t.Errorf("Current after logout: err = %v, want ErrNoSession", err)
	}
}

func TestCurrent_CorruptBlob(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager()
	_ = store.Set(ctx, StorageKey, []byte("{not json"))

	if _, err := m.Current(ctx); err == nil || errors.Is(err, ErrNoSession) {
		t.Errorf("expected a decode error, got %v", err)
	}
}

func TestAvatarURL(t *testing.T) {
	got := AvatarURL("a+b@example.com")
	want := "https://api.dicebear.com/7.x/avataaars/svg?seed=a%2Bb%40example.com"
	if got != want {
		t.Errorf("AvatarURL = %q, want %q", got, want)
	}
}
