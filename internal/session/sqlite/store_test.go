package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dvloznov/budget-tracker/internal/session"
	"github.com/rs/zerolog"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "session.db")
	store, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestStore_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, session.ErrKeyNotFound) {
		t.Fatalf("Get missing: err = %v, want ErrKeyNotFound", err)
	}

	if err := store.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Get = %q, want v2", got)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "k"); !errors.Is(err, session.ErrKeyNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrKeyNotFound", err)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	store, path := openTestStore(t)

	m := session.NewManager(store)
	user, err := m.Login(ctx, "alex@example.com", "", false)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	store.Close()

	reopened, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	current, err := session.NewManager(reopened).Current(ctx)
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if current.ID != user.ID || current.Email != "alex@example.com" {
		t.Errorf("unexpected profile after reopen: %+v", current)
	}
}
