package ledger

import "github.com/dvloznov/budget-tracker/internal/domain"

// DefaultCategories returns the starter budget a new user sees.
func DefaultCategories() []domain.BudgetCategory {
	return []domain.BudgetCategory{
		{ID: "inc-1", Name: "Salary", Type: domain.CategoryIncome, BudgetedAmount: 150000, SpentAmount: 150000},
		{ID: "bill-1", Name: "House Rent", Type: domain.CategoryBill, BudgetedAmount: 35000, SpentAmount: 35000, DueDate: 5},
		{ID: "exp-1", Name: "Groceries", Type: domain.CategoryExpense, BudgetedAmount: 12000, SpentAmount: 8500},
		{ID: "exp-2", Name: "Dining Out", Type: domain.CategoryExpense, BudgetedAmount: 8000, SpentAmount: 4200},
		{ID: "exp-3", Name: "Uber/Ola", Type: domain.CategoryExpense, BudgetedAmount: 5000, SpentAmount: 1200},
		{ID: "sav-1", Name: "Mutual Funds", Type: domain.CategorySavings, BudgetedAmount: 20000, SpentAmount: 20000},
		{ID: "debt-1", Name: "Credit Card", Type: domain.CategoryDebt, BudgetedAmount: 15000, SpentAmount: 5000},
	}
}
