// Package review implements the human review step between extraction and the
// ledger: the candidate transaction is edited, optionally split among
// friends, and then confirmed or cancelled.
package review

import (
	"errors"
	"fmt"
	"time"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/google/uuid"
)

// State is the lifecycle position of a review session.
type State string

const (
	StateIdle      State = "idle"
	StateReviewing State = "reviewing"
	StateConfirmed State = "confirmed"
	StateCancelled State = "cancelled"
)

// Participant bounds for an even split, payer included.
const (
	MinSplitPeople = 2
	MaxSplitPeople = 20
)

// ErrNotReviewing is returned when an edit, confirm or cancel is attempted
// outside the Reviewing state.
var ErrNotReviewing = errors.New("review session is not in reviewing state")

// ErrAlreadyStarted is returned when Begin is called on a session that has
// left the Idle state.
var ErrAlreadyStarted = errors.New("review session already started")

// Session is one review of one extracted transaction. It is a plain value
// with no internal locking; callers that share it keep it in a Store.
type Session struct {
	ID        string                  `json:"id"`
	State     State                   `json:"state"`
	Original  domain.ExtractionResult `json:"original"`
	Draft     domain.ExtractionResult `json:"draft"`
	Split     int                     `json:"splitPeople,omitempty"` // 0 when split mode is off
	Payee     Payee                   `json:"-"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// Confirmation is the outcome of a confirmed review. Result.Amount is always
// the full amount, also when the transaction was split.
type Confirmation struct {
	SessionID string                  `json:"sessionId"`
	Result    domain.ExtractionResult `json:"result"`
	Split     *domain.SplitDetails    `json:"split,omitempty"`
}

// Preview is what a presentation layer shows while reviewing.
type Preview struct {
	State State                   `json:"state"`
	Draft domain.ExtractionResult `json:"draft"`
	Split *domain.SplitDetails    `json:"split,omitempty"`
}

// NewSession creates an idle session that will request split payments to payee.
func NewSession(payee Payee) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		State:     StateIdle,
		Payee:     payee,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Begin enters Reviewing with the extracted result as the editable draft.
func (s *Session) Begin(result domain.ExtractionResult) error {
	if s.State != StateIdle {
		return fmt.Errorf("Begin: %w", ErrAlreadyStarted)
	}
	s.Original = result
	s.Draft = result
	s.transition(StateReviewing)
	return nil
}

// SetMerchant replaces the draft merchant.
func (s *Session) SetMerchant(merchant string) error {
	return s.edit(func(d *domain.ExtractionResult) { d.Merchant = merchant })
}

// SetAmount replaces the draft amount. The value is checked on Confirm.
func (s *Session) SetAmount(amount float64) error {
	return s.edit(func(d *domain.ExtractionResult) { d.Amount = amount })
}

// SetCategoryName replaces the draft category name.
func (s *Session) SetCategoryName(name string) error {
	return s.edit(func(d *domain.ExtractionResult) { d.CategoryName = name })
}

// SetCategoryType replaces the draft category type.
func (s *Session) SetCategoryType(t domain.CategoryType) error {
	return s.edit(func(d *domain.ExtractionResult) { d.CategoryType = t })
}

// SetDate replaces the draft date (YYYY-MM-DD).
func (s *Session) SetDate(date string) error {
	return s.edit(func(d *domain.ExtractionResult) { d.Date = date })
}

// SetRecurring flags the draft as a recurring bill.
func (s *Session) SetRecurring(recurring bool) error {
	return s.edit(func(d *domain.ExtractionResult) { d.IsRecurring = recurring })
}

// EnableSplit turns on an even split among n people, payer included.
func (s *Session) EnableSplit(n int) error {
	if s.State != StateReviewing {
		return fmt.Errorf("EnableSplit: %w", ErrNotReviewing)
	}
	if err := checkPeople(n); err != nil {
		return err
	}
	s.Split = n
	s.touch()
	return nil
}

// DisableSplit turns split mode off.
func (s *Session) DisableSplit() error {
	if s.State != StateReviewing {
		return fmt.Errorf("DisableSplit: %w", ErrNotReviewing)
	}
	s.Split = 0
	s.touch()
	return nil
}

// Preview returns the current draft and, when split mode is on and the
// amount is usable, the split it would produce.
func (s *Session) Preview() Preview {
	p := Preview{State: s.State, Draft: s.Draft}
	if s.Split != 0 {
		if split, err := ComputeSplit(s.Payee, s.Draft.Amount, s.Split, s.Draft.Merchant); err == nil {
			p.Split = &split
		}
	}
	return p
}

// Confirm validates the draft and moves the session to Confirmed. On a
// validation failure the session stays in Reviewing.
func (s *Session) Confirm() (Confirmation, error) {
	if s.State != StateReviewing {
		return Confirmation{}, fmt.Errorf("Confirm: %w", ErrNotReviewing)
	}
	if err := Validate(s.Draft); err != nil {
		return Confirmation{}, err
	}

	c := Confirmation{SessionID: s.ID, Result: s.Draft}
	if s.Split != 0 {
		split, err := ComputeSplit(s.Payee, s.Draft.Amount, s.Split, s.Draft.Merchant)
		if err != nil {
			return Confirmation{}, err
		}
		c.Split = &split
	}

	s.transition(StateConfirmed)
	return c, nil
}

// Cancel discards the draft.
func (s *Session) Cancel() error {
	if s.State != StateReviewing {
		return fmt.Errorf("Cancel: %w", ErrNotReviewing)
	}
	s.transition(StateCancelled)
	return nil
}

// Done reports whether the session reached a terminal state.
func (s *Session) Done() bool {
	return s.State == StateConfirmed || s.State == StateCancelled
}

func (s *Session) edit(fn func(*domain.ExtractionResult)) error {
	if s.State != StateReviewing {
		return ErrNotReviewing
	}
	fn(&s.Draft)
	s.touch()
	return nil
}

func (s *Session) transition(to State) {
	s.State = to
	s.touch()
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// ComputeSplit divides amount evenly among n people and builds the payment
// request for one share. amountPerPerson is the exact quotient; rounding is
// applied only when rendering the link.
func ComputeSplit(payee Payee, amount float64, n int, merchant string) (domain.SplitDetails, error) {
	if err := checkAmount(amount); err != nil {
		return domain.SplitDetails{}, err
	}
	if err := checkPeople(n); err != nil {
		return domain.SplitDetails{}, err
	}

	perPerson := amount / float64(n)
	if domain.RoundsToZero(perPerson) {
		return domain.SplitDetails{}, &ValidationError{
			Field:  "amount",
			Reason: fmt.Sprintf("a share of %v among %d people rounds to zero", amount, n),
		}
	}
	link := PaymentURI(payee, perPerson, merchant)
	return domain.SplitDetails{
		TotalAmount:     amount,
		NumberOfPeople:  n,
		AmountPerPerson: perPerson,
		ShareLink:       link,
		QRImageURL:      QRImageURL(link),
		IsSplit:         true,
	}, nil
}
