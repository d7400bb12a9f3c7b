package review

import "github.com/dvloznov/budget-tracker/internal/domain"

// Edits is a partial change set for a draft. Nil fields are left as they
// are. SplitPeople 0 turns split mode off; nil leaves it unchanged.
type Edits struct {
	Merchant     *string              `json:"merchant,omitempty"`
	Amount       *float64             `json:"amount,omitempty"`
	CategoryName *string              `json:"categoryName,omitempty"`
	CategoryType *domain.CategoryType `json:"categoryType,omitempty"`
	Date         *string              `json:"date,omitempty"`
	IsRecurring  *bool                `json:"isRecurring,omitempty"`
	SplitPeople  *int                 `json:"splitPeople,omitempty"`
}

// Apply runs the setters for every non-nil field. The split count is applied
// last, so when it is rejected the field edits before it are kept and the
// session is still worth saving.
func (s *Session) Apply(e Edits) error {
	if e.Merchant != nil {
		if err := s.SetMerchant(*e.Merchant); err != nil {
			return err
		}
	}
	if e.Amount != nil {
		if err := s.SetAmount(*e.Amount); err != nil {
			return err
		}
	}
	if e.CategoryName != nil {
		if err := s.SetCategoryName(*e.CategoryName); err != nil {
			return err
		}
	}
	if e.CategoryType != nil {
		if err := s.SetCategoryType(*e.CategoryType); err != nil {
			return err
		}
	}
	if e.Date != nil {
		if err := s.SetDate(*e.Date); err != nil {
			return err
		}
	}
	if e.IsRecurring != nil {
		if err := s.SetRecurring(*e.IsRecurring); err != nil {
			return err
		}
	}
	if e.SplitPeople != nil {
		if *e.SplitPeople == 0 {
			return s.DisableSplit()
		}
		return s.EnableSplit(*e.SplitPeople)
	}
	return nil
}
