package ledger

import (
	"math"

	"github.com/dvloznov/budget-tracker/internal/domain"
)

// nearBudgetRatio is the share of a budget past which a category is flagged.
const nearBudgetRatio = 0.85

// Totals are the dashboard aggregates. They are always derived from the
// current categories and never stored.
type Totals struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	TotalBudget   float64 `json:"totalBudget"`
	TotalSavings  float64 `json:"totalSavings"`
	Balance       float64 `json:"balance"`
	Remaining     float64 `json:"remaining"`
}

// ComputeTotals derives Totals from categories.
func ComputeTotals(categories []domain.BudgetCategory) Totals {
	var t Totals
	for _, c := range categories {
		switch {
		case c.Type == domain.CategoryIncome:
			t.TotalIncome += c.SpentAmount
		case c.Type.IsOutflow():
			t.TotalExpenses += c.SpentAmount
			t.TotalBudget += c.BudgetedAmount
		case c.Type == domain.CategorySavings:
			t.TotalSavings += c.SpentAmount
		}
	}
	t.Balance = t.TotalIncome - t.TotalExpenses - t.TotalSavings
	t.Remaining = t.TotalBudget - t.TotalExpenses
	return t
}

// GroupSummary sums one category type for the per-type tables.
type GroupSummary struct {
	Type        domain.CategoryType `json:"type"`
	Count       int                 `json:"count"`
	Spent       float64             `json:"spent"`
	Budgeted    float64             `json:"budgeted"`
	PercentUsed int                 `json:"percentUsed"`
}

// Summarize builds a GroupSummary for every category type, in display order.
func Summarize(categories []domain.BudgetCategory) []GroupSummary {
	out := make([]GroupSummary, 0, len(domain.CategoryTypes))
	for _, t := range domain.CategoryTypes {
		g := GroupSummary{Type: t}
		for _, c := range categories {
			if c.Type != t {
				continue
			}
			g.Count++
			g.Spent += c.SpentAmount
			g.Budgeted += c.BudgetedAmount
		}
		// An empty budget is treated as 1 so the ratio stays finite.
		g.PercentUsed = int(math.Round(g.Spent / math.Max(g.Budgeted, 1) * 100))
		out = append(out, g)
	}
	return out
}

// BudgetStatus flags how close a category is to its budget.
type BudgetStatus string

const (
	StatusOK   BudgetStatus = "ok"
	StatusNear BudgetStatus = "near"
	StatusOver BudgetStatus = "over"
)

// Status reports the budget status of c. Income and savings are never
// flagged; neither is a category without a budget.
func Status(c domain.BudgetCategory) BudgetStatus {
	if c.Type == domain.CategoryIncome || c.Type == domain.CategorySavings {
		return StatusOK
	}
	if c.BudgetedAmount <= 0 {
		return StatusOK
	}
	if c.SpentAmount > c.BudgetedAmount {
		return StatusOver
	}
	if c.SpentAmount/c.BudgetedAmount > nearBudgetRatio {
		return StatusNear
	}
	return StatusOK
}

// Overspend returns how far c is over its budget, or 0.
func Overspend(c domain.BudgetCategory) float64 {
	if Status(c) != StatusOver {
		return 0
	}
	return c.SpentAmount - c.BudgetedAmount
}
