// Package notify holds the in-process notification feed shown on the dashboard.
package notify

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/google/uuid"
)

// ErrNotificationNotFound is returned by MarkRead for an unknown id.
var ErrNotificationNotFound = errors.New("notification not found")

// Feed is a newest-first list of notifications. It is safe for concurrent use
// and has no retention policy.
type Feed struct {
	mu    sync.RWMutex
	items []domain.Notification
	now   func() time.Time
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{now: time.Now}
}

// Add prepends a notification and returns it.
func (f *Feed) Add(t domain.NotificationType, message string) domain.Notification {
	n := domain.Notification{
		ID:      uuid.NewString(),
		Type:    t,
		Message: message,
		Time:    f.now().UTC(),
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append([]domain.Notification{n}, f.items...)
	return n
}

// List returns a copy of all notifications, newest first.
func (f *Feed) List() []domain.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]domain.Notification, len(f.items))
	copy(out, f.items)
	return out
}

// MarkRead marks one notification as read.
func (f *Feed) MarkRead(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
			return nil
		}
	}
	return fmt.Errorf("MarkRead %s: %w", id, ErrNotificationNotFound)
}

// MarkAllRead marks every notification as read.
func (f *Feed) MarkAllRead() {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		f.items[i].Read = true
	}
}

// UnreadCount returns the number of unread notifications.
func (f *Feed) UnreadCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	count := 0
	for _, n := range f.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// Seed loads the welcome notifications a fresh dashboard starts with.
// Times are relative to now so the feed reads naturally.
func (f *Feed) Seed() {
	now := f.now().UTC()
	seed := []domain.Notification{
		{ID: "n1", Type: domain.NotificationWarning, Message: `You have exceeded your "Dining Out" budget by ₹500.`, Time: now.Add(-2 * time.Hour)},
		{ID: "n2", Type: domain.NotificationInfo, Message: "Rent bill is due in 3 days.", Time: now.Add(-5 * time.Hour)},
		{ID: "n3", Type: domain.NotificationSuccess, Message: "Salary credited: ₹1,50,000", Time: now.Add(-24 * time.Hour), Read: true},
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, seed...)
}
