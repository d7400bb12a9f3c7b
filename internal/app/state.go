package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/ledger"
	"github.com/dvloznov/budget-tracker/internal/session"
)

// financialQuotes are shown one per process on the dashboard.
var financialQuotes = []string{
	"Do not save what is left after spending, but spend what is left after saving. – Warren Buffett",
	"A budget is telling your money where to go instead of wondering where it went. – Dave Ramsey",
	"Beware of little expenses. A small leak will sink a great ship. – Benjamin Franklin",
	"The art is not in making money, but in keeping it. – Proverb",
	"Financial freedom is available to those who learn about it and work for it. – Robert Kiyosaki",
	"It's not your salary that makes you rich, it's your spending habits. – Charles A. Jaffe",
}

// Dashboard is the read-only view presentation layers render.
type Dashboard struct {
	Categories    []domain.BudgetCategory `json:"categories"`
	Totals        ledger.Totals           `json:"totals"`
	Groups        []ledger.GroupSummary   `json:"groups"`
	Notifications []domain.Notification   `json:"notifications"`
	UnreadCount   int                     `json:"unreadCount"`
	User          *domain.User            `json:"user,omitempty"`
	Quote         string                  `json:"quote"`
}

// Snapshot builds the dashboard from current state. Totals are recomputed on
// every call.
func (a *App) Snapshot(ctx context.Context) Dashboard {
	categories := a.ledger.Snapshot()
	d := Dashboard{
		Categories:    categories,
		Totals:        ledger.ComputeTotals(categories),
		Groups:        ledger.Summarize(categories),
		Notifications: a.feed.List(),
		UnreadCount:   a.feed.UnreadCount(),
		Quote:         a.quote,
	}

	user, err := a.sessions.Current(ctx)
	switch {
	case err == nil:
		d.User = &user
	case !errors.Is(err, session.ErrNoSession):
		a.log.Warn().Err(err).Msg("Failed to read session for dashboard")
	}
	return d
}

// Categories returns the categories in insertion order.
func (a *App) Categories() []domain.BudgetCategory {
	return a.ledger.Snapshot()
}

// CreateCategory adds an empty placeholder category of type t.
func (a *App) CreateCategory(t domain.CategoryType) (domain.BudgetCategory, error) {
	c, err := a.ledger.Create(t)
	if err != nil {
		return domain.BudgetCategory{}, err
	}
	a.log.Info().Str("category_id", c.ID).Str("type", string(t)).Msg("Category created")
	return c, nil
}

// UpdateCategory applies one typed update to a category.
func (a *App) UpdateCategory(id string, u ledger.Update) (domain.BudgetCategory, error) {
	c, err := a.ledger.Update(id, u)
	if err != nil {
		return domain.BudgetCategory{}, err
	}
	a.log.Info().Str("category_id", id).Str("update", fmt.Sprintf("%T", u)).Msg("Category updated")
	return c, nil
}

// DeleteCategory removes a category. Totals drop it immediately.
func (a *App) DeleteCategory(id string) error {
	if err := a.ledger.Delete(id); err != nil {
		return err
	}
	a.log.Info().Str("category_id", id).Msg("Category deleted")
	return nil
}

// Notifications returns the feed, newest first.
func (a *App) Notifications() []domain.Notification {
	return a.feed.List()
}

// MarkNotificationRead marks one notification read.
func (a *App) MarkNotificationRead(id string) error {
	return a.feed.MarkRead(id)
}

// MarkAllNotificationsRead marks the whole feed read.
func (a *App) MarkAllNotificationsRead() {
	a.feed.MarkAllRead()
}

// Login signs a user in (or up) with the mock authenticator.
func (a *App) Login(ctx context.Context, email, name string, signup bool) (domain.User, error) {
	return a.sessions.Login(ctx, email, name, signup)
}

// CurrentUser returns the signed-in user or session.ErrNoSession.
func (a *App) CurrentUser(ctx context.Context) (domain.User, error) {
	return a.sessions.Current(ctx)
}

// UpdateProfile changes the user's name and email and announces it.
func (a *App) UpdateProfile(ctx context.Context, name, email string) (domain.User, error) {
	user, err := a.sessions.UpdateProfile(ctx, name, email)
	if err != nil {
		return domain.User{}, err
	}
	a.feed.Add(domain.NotificationSuccess, "Profile updated successfully")
	return user, nil
}

// Logout forgets the signed-in user.
func (a *App) Logout(ctx context.Context) error {
	return a.sessions.Logout(ctx)
}
