package review

import (
	"fmt"
	"math"
	"strings"

	"github.com/dvloznov/budget-tracker/internal/domain"
)

// ValidationError reports a draft field that cannot be committed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks a draft before it may reach the ledger.
func Validate(r domain.ExtractionResult) error {
	if err := checkAmount(r.Amount); err != nil {
		return err
	}
	if strings.TrimSpace(r.CategoryName) == "" {
		return &ValidationError{Field: "categoryName", Reason: "must not be empty"}
	}
	if !r.CategoryType.Valid() {
		return &ValidationError{Field: "categoryType", Reason: fmt.Sprintf("unknown type %q", r.CategoryType)}
	}
	if _, err := r.ParsedDate(); err != nil {
		return &ValidationError{Field: "date", Reason: fmt.Sprintf("%q is not YYYY-MM-DD", r.Date)}
	}
	return nil
}

func checkAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return &ValidationError{Field: "amount", Reason: "must be a finite number"}
	}
	if amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	return nil
}

func checkPeople(n int) error {
	if n < MinSplitPeople || n > MaxSplitPeople {
		return &ValidationError{
			Field:  "numberOfPeople",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", MinSplitPeople, MaxSplitPeople, n),
		}
	}
	return nil
}
