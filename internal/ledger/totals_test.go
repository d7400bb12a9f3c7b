package ledger

import (
	"testing"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/google/go-cmp/cmp"
)

func TestComputeTotals_DefaultCategories(t *testing.T) {
	got := ComputeTotals(DefaultCategories())

	want := Totals{
		TotalIncome:   150000,
		TotalExpenses: 35000 + 8500 + 4200 + 1200,
		TotalBudget:   35000 + 12000 + 8000 + 5000,
		TotalSavings:  20000,
	}
	want.Balance = want.TotalIncome - want.TotalExpenses - want.TotalSavings
	want.Remaining = want.TotalBudget - want.TotalExpenses

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeTotals mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeTotals_DebtExcluded(t *testing.T) {
	got := ComputeTotals([]domain.BudgetCategory{
		{Type: domain.CategoryDebt, BudgetedAmount: 100, SpentAmount: 50},
	})
	if got != (Totals{}) {
		t.Errorf("debt should not contribute to totals, got %+v", got)
	}
}

func TestSummarize(t *testing.T) {
	groups := Summarize(DefaultCategories())
	if len(groups) != len(domain.CategoryTypes) {
		t.Fatalf("got %d groups, want %d", len(groups), len(domain.CategoryTypes))
	}

	expense := groups[2]
	if expense.Type != domain.CategoryExpense {
		t.Fatalf("groups[2].Type = %q, want expense", expense.Type)
	}
	if expense.Count != 3 || expense.Spent != 13900 || expense.Budgeted != 25000 {
		t.Errorf("unexpected expense summary: %+v", expense)
	}
	if expense.PercentUsed != 56 {
		t.Errorf("PercentUsed = %d, want 56", expense.PercentUsed)
	}

	empty := Summarize(nil)
	for _, g := range empty {
		if g.PercentUsed != 0 {
			t.Errorf("empty group %q PercentUsed = %d, want 0", g.Type, g.PercentUsed)
		}
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		cat  domain.BudgetCategory
		want BudgetStatus
	}{
		{"under", domain.BudgetCategory{Type: domain.CategoryExpense, BudgetedAmount: 100, SpentAmount: 50}, StatusOK},
		{"near", domain.BudgetCategory{Type: domain.CategoryExpense, BudgetedAmount: 100, SpentAmount: 90}, StatusNear},
		{"exactly at budget", domain.BudgetCategory{Type: domain.CategoryBill, BudgetedAmount: 100, SpentAmount: 100}, StatusNear},
		{"over", domain.BudgetCategory{Type: domain.CategoryDebt, BudgetedAmount: 100, SpentAmount: 101}, StatusOver},
		{"income never flagged", domain.BudgetCategory{Type: domain.CategoryIncome, BudgetedAmount: 100, SpentAmount: 500}, StatusOK},
		{"savings never flagged", domain.BudgetCategory{Type: domain.CategorySavings, BudgetedAmount: 100, SpentAmount: 500}, StatusOK},
		{"no budget", domain.BudgetCategory{Type: domain.CategoryExpense, SpentAmount: 500}, StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.cat); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOverspend(t *testing.T) {
	c := domain.BudgetCategory{Type: domain.CategoryExpense, BudgetedAmount: 8000, SpentAmount: 8500}
	if got := Overspend(c); got != 500 {
		t.Errorf("Overspend() = %v, want 500", got)
	}
	c.SpentAmount = 100
	if got := Overspend(c); got != 0 {
		t.Errorf("Overspend() = %v, want 0", got)
	}
}
