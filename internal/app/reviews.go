package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/ledger"
	"github.com/dvloznov/budget-tracker/internal/review"
)

// Outcome is what a confirmed transaction did.
type Outcome struct {
	Confirmation  review.Confirmation   `json:"confirmation"`
	Category      domain.BudgetCategory `json:"category"`
	Created       bool                  `json:"created"`
	Notifications []domain.Notification `json:"notifications"`
}

// BeginReview opens a review session for an extraction result.
func (a *App) BeginReview(ctx context.Context, result domain.ExtractionResult) (*review.Session, error) {
	s := review.NewSession(a.payee)
	if err := s.Begin(result); err != nil {
		return nil, fmt.Errorf("BeginReview: %w", err)
	}
	if err := a.reviews.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("BeginReview: %w", err)
	}

	a.log.Debug().Str("review_id", s.ID).Str("merchant", result.Merchant).Msg("Review started")
	return s, nil
}

// GetReview returns a review session.
func (a *App) GetReview(ctx context.Context, id string) (*review.Session, error) {
	return a.reviews.Get(ctx, id)
}

// EditReview applies edits to an open review and keeps them.
func (a *App) EditReview(ctx context.Context, id string, edits review.Edits) (*review.Session, error) {
	a.reviewMu.Lock()
	defer a.reviewMu.Unlock()

	s, err := a.reviews.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(edits); err != nil {
		a.keepEdits(ctx, s, err)
		return nil, fmt.Errorf("EditReview: %w", err)
	}
	if err := a.reviews.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("EditReview: %w", err)
	}
	return s, nil
}

// ConfirmReview applies final edits, confirms the review and commits the
// full amount to the ledger. When validation fails the edits are kept and
// the review stays open.
func (a *App) ConfirmReview(ctx context.Context, id string, edits review.Edits) (Outcome, error) {
	a.reviewMu.Lock()
	defer a.reviewMu.Unlock()

	s, err := a.reviews.Get(ctx, id)
	if err != nil {
		return Outcome{}, err
	}
	if err := s.Apply(edits); err != nil {
		a.keepEdits(ctx, s, err)
		return Outcome{}, fmt.Errorf("ConfirmReview: %w", err)
	}

	c, err := s.Confirm()
	if err != nil {
		if saveErr := a.reviews.Save(ctx, s); saveErr != nil {
			a.log.Warn().Err(saveErr).Str("review_id", id).Msg("Failed to keep review edits")
		}
		return Outcome{}, fmt.Errorf("ConfirmReview: %w", err)
	}

	out, err := a.commit(c)
	if err != nil {
		return Outcome{}, fmt.Errorf("ConfirmReview: %w", err)
	}

	if err := a.reviews.Save(ctx, s); err != nil {
		a.log.Warn().Err(err).Str("review_id", id).Msg("Failed to store confirmed review")
	}
	return out, nil
}

// keepEdits stores the field edits Apply made before a rejected split count.
func (a *App) keepEdits(ctx context.Context, s *review.Session, applyErr error) {
	var verr *review.ValidationError
	if !errors.As(applyErr, &verr) {
		return
	}
	if err := a.reviews.Save(ctx, s); err != nil {
		a.log.Warn().Err(err).Str("review_id", s.ID).Msg("Failed to keep review edits")
	}
}

// CancelReview discards an open review with no ledger effect.
func (a *App) CancelReview(ctx context.Context, id string) error {
	a.reviewMu.Lock()
	defer a.reviewMu.Unlock()

	s, err := a.reviews.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Cancel(); err != nil {
		return fmt.Errorf("CancelReview: %w", err)
	}
	if err := a.reviews.Save(ctx, s); err != nil {
		return fmt.Errorf("CancelReview: %w", err)
	}

	a.log.Debug().Str("review_id", id).Msg("Review cancelled")
	return nil
}

// CommitTransaction confirms a transaction without a stored review, as the
// CLI does. splitPeople 0 means no split. It goes through the same review
// validation as the interactive path.
func (a *App) CommitTransaction(ctx context.Context, result domain.ExtractionResult, splitPeople int) (Outcome, error) {
	s := review.NewSession(a.payee)
	if err := s.Begin(result); err != nil {
		return Outcome{}, fmt.Errorf("CommitTransaction: %w", err)
	}
	if splitPeople != 0 {
		if err := s.EnableSplit(splitPeople); err != nil {
			return Outcome{}, fmt.Errorf("CommitTransaction: %w", err)
		}
	}

	c, err := s.Confirm()
	if err != nil {
		return Outcome{}, fmt.Errorf("CommitTransaction: %w", err)
	}
	return a.commit(c)
}

// commit is the single path from a confirmation into the ledger. The full
// amount is recorded even when the transaction was split.
func (a *App) commit(c review.Confirmation) (Outcome, error) {
	res, err := a.ledger.Commit(c.Result.Amount, c.Result.CategoryName, c.Result.CategoryType)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Confirmation: c, Category: res.Category, Created: res.Created}

	if c.Split != nil {
		msg := fmt.Sprintf("Split expense created! Share link generated for %d friends.", c.Split.Friends())
		out.Notifications = append(out.Notifications, a.feed.Add(domain.NotificationSuccess, msg))
	} else {
		out.Notifications = append(out.Notifications, a.feed.Add(domain.NotificationSuccess, "Transaction added: "+c.Result.Merchant))
	}

	// Warn once, when this commit pushes the category over its budget.
	if !res.Created && ledger.Status(res.Previous) != ledger.StatusOver && ledger.Status(res.Category) == ledger.StatusOver {
		msg := fmt.Sprintf(`You have exceeded your "%s" budget by %s.`, res.Category.Name, domain.FormatINR(ledger.Overspend(res.Category)))
		out.Notifications = append(out.Notifications, a.feed.Add(domain.NotificationWarning, msg))
	}

	a.log.Info().
		Str("category_id", res.Category.ID).
		Str("category", res.Category.Name).
		Float64("amount", c.Result.Amount).
		Bool("created", res.Created).
		Bool("split", c.Split != nil).
		Msg("Transaction committed")

	return out, nil
}
