// Package session keeps the signed-in user's profile as a single blob under a
// fixed key, the way a browser keeps it in local storage. Authentication is a
// mock: no credential is ever checked.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/google/uuid"
)

// StorageKey is the key the profile blob is stored under.
const StorageKey = "pastel_user"

// DefaultLoginName is the display name given to users who log in rather
// than sign up.
const DefaultLoginName = "Alex Johnson"

const avatarBaseURL = "https://api.dicebear.com/7.x/avataaars/svg"

var (
	// ErrNoSession is returned when nobody is signed in.
	ErrNoSession = errors.New("no active session")

	// ErrKeyNotFound is returned by a KVStore for a missing key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrEmailRequired is returned when logging in without an email.
	ErrEmailRequired = errors.New("email is required")

	// ErrNameRequired is returned when signing up without a name.
	ErrNameRequired = errors.New("name is required")
)

// KVStore is a tiny key-value store for session blobs.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Manager reads and writes the profile blob.
type Manager struct {
	store KVStore
	now   func() time.Time
}

// NewManager creates a Manager on top of store.
func NewManager(store KVStore) *Manager {
	return &Manager{store: store, now: time.Now}
}

// Login creates a mock user for email and persists it. On signup the given
// name is used, otherwise the default display name.
func (m *Manager) Login(ctx context.Context, email, name string, signup bool) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, fmt.Errorf("Login: %w", ErrEmailRequired)
	}

	displayName := DefaultLoginName
	if signup {
		displayName = strings.TrimSpace(name)
		if displayName == "" {
			return domain.User{}, fmt.Errorf("Login: %w", ErrNameRequired)
		}
	}

	user := domain.User{
		ID:         "user-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9],
		Name:       displayName,
		Email:      email,
		Avatar:     AvatarURL(email),
		Currency:   domain.DefaultCurrency,
		JoinedDate: m.now().UTC().Format(time.RFC3339),
	}

	if err := m.save(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("Login: %w", err)
	}
	return user, nil
}

// Current returns the persisted user, or ErrNoSession.
func (m *Manager) Current(ctx context.Context) (domain.User, error) {
	data, err := m.store.Get(ctx, StorageKey)
	if errors.Is(err, ErrKeyNotFound) {
		return domain.User{}, ErrNoSession
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("Current: read profile: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(data, &user); err != nil {
		return domain.User{}, fmt.Errorf("Current: decode profile: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the name and email of the signed-in user. Empty
// arguments keep the current value.
func (m *Manager) UpdateProfile(ctx context.Context, name, email string) (domain.User, error) {
	user, err := m.Current(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("UpdateProfile: %w", err)
	}

	if n := strings.TrimSpace(name); n != "" {
		user.Name = n
	}
	if e := strings.TrimSpace(email); e != "" {
		user.Email = e
	}

	if err := m.save(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("UpdateProfile: %w", err)
	}
	return user, nil
}

// Logout removes the profile blob.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("Logout: %w", err)
	}
	return nil
}

func (m *Manager) save(ctx context.Context, user domain.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := m.store.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("write profile: %w", err)
	}
	return nil
}

// AvatarURL returns a generated avatar that is stable for an email address.
func AvatarURL(email string) string {
	return avatarBaseURL + "?seed=" + url.QueryEscape(email)
}
