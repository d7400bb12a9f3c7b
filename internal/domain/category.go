package domain

import (
	"fmt"
	"strings"
)

// CategoryType classifies a budget category.
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryBill    CategoryType = "bill"
	CategoryExpense CategoryType = "expense"
	CategorySavings CategoryType = "savings"
	CategoryDebt    CategoryType = "debt"
)

// CategoryTypes lists every valid category type in display order.
var CategoryTypes = []CategoryType{
	CategoryIncome,
	CategoryBill,
	CategoryExpense,
	CategorySavings,
	CategoryDebt,
}

// Valid reports whether t is one of the five known category types.
func (t CategoryType) Valid() bool {
	switch t {
	case CategoryIncome, CategoryBill, CategoryExpense, CategorySavings, CategoryDebt:
		return true
	}
	return false
}

// ParseCategoryType converts s into a CategoryType. Matching is exact; the
// model schema and the API both use the lowercase names.
func ParseCategoryType(s string) (CategoryType, error) {
	t := CategoryType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid category type %q: must be one of %v", s, CategoryTypes)
	}
	return t, nil
}

// IsOutflow reports whether spending in this category counts towards
// totalExpenses and totalBudget.
func (t CategoryType) IsOutflow() bool {
	return t == CategoryExpense || t == CategoryBill
}

// BudgetCategory is a named budget bucket with budget-vs-actual amounts.
type BudgetCategory struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Type           CategoryType `json:"type"`
	BudgetedAmount float64      `json:"budgetedAmount"`
	SpentAmount    float64      `json:"spentAmount"`
	DueDate        int          `json:"dueDate,omitempty"` // day of month, 0 when unset
	IsRecurring    bool         `json:"isRecurring,omitempty"`
}

// SameName reports whether two category names resolve to the same category
// at commit time: surrounding whitespace is dropped and case is folded.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
