package ledger

import (
	"math"
	"strings"

	"github.com/dvloznov/budget-tracker/internal/domain"
)

// Update is a single typed change to one category field. The set of
// implementations is closed: Rename, Rebudget, Retype, ResetSpent,
// SetDueDate and SetRecurring.
type Update interface {
	apply(c *domain.BudgetCategory) error
}

// Rename sets the display name.
type Rename struct{ Name string }

// Rebudget sets the budgeted amount.
type Rebudget struct{ Amount float64 }

// Retype moves the category to another type.
type Retype struct{ Type domain.CategoryType }

// ResetSpent overwrites the spent amount.
type ResetSpent struct{ Amount float64 }

// SetDueDate sets the bill due day; 0 clears it.
type SetDueDate struct{ Day int }

// SetRecurring marks the category as a recurring bill or not.
type SetRecurring struct{ Recurring bool }

func (u Rename) apply(c *domain.BudgetCategory) error {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		return ErrEmptyName
	}
	c.Name = name
	return nil
}

func (u Rebudget) apply(c *domain.BudgetCategory) error {
	if err := checkNonNegative(u.Amount); err != nil {
		return err
	}
	c.BudgetedAmount = u.Amount
	return nil
}

func (u Retype) apply(c *domain.BudgetCategory) error {
	if !u.Type.Valid() {
		return ErrInvalidType
	}
	c.Type = u.Type
	return nil
}

func (u ResetSpent) apply(c *domain.BudgetCategory) error {
	if err := checkNonNegative(u.Amount); err != nil {
		return err
	}
	c.SpentAmount = u.Amount
	return nil
}

func (u SetDueDate) apply(c *domain.BudgetCategory) error {
	if u.Day < 0 || u.Day > 31 {
		return ErrInvalidDueDate
	}
	c.DueDate = u.Day
	return nil
}

func (u SetRecurring) apply(c *domain.BudgetCategory) error {
	c.IsRecurring = u.Recurring
	return nil
}

func checkNonNegative(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return ErrNegativeAmount
	}
	return nil
}
