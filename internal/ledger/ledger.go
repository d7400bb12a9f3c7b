package ledger

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/google/uuid"
)

// PlaceholderName is the name given to categories created from the UI
// before the user renames them.
const PlaceholderName = "New Category"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrNegativeAmount   = errors.New("amount can't be negative")
	ErrEmptyName        = errors.New("category name can't be empty")
	ErrInvalidType      = errors.New("invalid category type")
	ErrInvalidDueDate   = errors.New("due date must be a day of month between 1 and 31")
)

// Ledger holds the budget categories in insertion order. It is safe for
// concurrent use; every mutation is a single step under the write lock.
type Ledger struct {
	mu         sync.RWMutex
	categories []domain.BudgetCategory
	newID      func() string
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		newID: uuid.NewString,
	}
}

// NewWithCategories creates a ledger seeded with the given categories.
// Categories without an ID get a fresh one.
func NewWithCategories(categories []domain.BudgetCategory) *Ledger {
	l := New()
	for _, c := range categories {
		l.Add(c)
	}
	return l
}

// Add appends c as-is, assigning an ID if it has none, and returns the stored copy.
func (l *Ledger) Add(c domain.BudgetCategory) domain.BudgetCategory {
	l.mu.Lock()
	defer l.mu.Unlock()

	if c.ID == "" {
		c.ID = l.newID()
	}
	l.categories = append(l.categories, c)
	return c
}

// Create adds an empty category of the given type with a placeholder name.
func (l *Ledger) Create(t domain.CategoryType) (domain.BudgetCategory, error) {
	if !t.Valid() {
		return domain.BudgetCategory{}, fmt.Errorf("Create: %w: %q", ErrInvalidType, t)
	}
	return l.Add(domain.BudgetCategory{
		Name: PlaceholderName,
		Type: t,
	}), nil
}

// Update applies u to the category with the given id.
func (l *Ledger) Update(id string, u Update) (domain.BudgetCategory, error) {
	if u == nil {
		return domain.BudgetCategory{}, fmt.Errorf("Update: nil update")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return domain.BudgetCategory{}, fmt.Errorf("Update %s: %w", id, ErrCategoryNotFound)
	}

	next := l.categories[i]
	if err := u.apply(&next); err != nil {
		return domain.BudgetCategory{}, fmt.Errorf("Update %s: %w", id, err)
	}
	l.categories[i] = next
	return next, nil
}

// Delete removes the category with the given id. Deleting an unknown id
// leaves the ledger unchanged and returns ErrCategoryNotFound.
func (l *Ledger) Delete(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return fmt.Errorf("Delete %s: %w", id, ErrCategoryNotFound)
	}
	l.categories = append(l.categories[:i], l.categories[i+1:]...)
	return nil
}

// CommitResult reports which category a commit touched.
type CommitResult struct {
	Category domain.BudgetCategory
	Created  bool
	// Previous is the category as it was before the commit; zero when Created.
	Previous domain.BudgetCategory
}

// Commit applies a confirmed transaction amount to the ledger. It is the only
// path by which transactions reach the ledger.
//
// The first category whose name matches categoryName (see domain.SameName)
// has its spent amount increased by amount; its type and budget are left
// alone even if categoryType disagrees. When nothing matches a new category
// is created with a zero budget. Exactly one category is affected.
func (l *Ledger) Commit(amount float64, categoryName string, categoryType domain.CategoryType) (CommitResult, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return CommitResult{}, fmt.Errorf("Commit: %w: %v", ErrInvalidAmount, amount)
	}
	name := strings.TrimSpace(categoryName)
	if name == "" {
		return CommitResult{}, fmt.Errorf("Commit: %w", ErrEmptyName)
	}
	if !categoryType.Valid() {
		return CommitResult{}, fmt.Errorf("Commit: %w: %q", ErrInvalidType, categoryType)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.categories {
		if domain.SameName(l.categories[i].Name, name) {
			prev := l.categories[i]
			l.categories[i].SpentAmount += amount
			return CommitResult{Category: l.categories[i], Previous: prev}, nil
		}
	}

	c := domain.BudgetCategory{
		ID:          l.newID(),
		Name:        name,
		Type:        categoryType,
		SpentAmount: amount,
	}
	l.categories = append(l.categories, c)
	return CommitResult{Category: c, Created: true}, nil
}

// Get returns a copy of the category with the given id.
func (l *Ledger) Get(id string) (domain.BudgetCategory, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	i := l.indexOf(id)
	if i < 0 {
		return domain.BudgetCategory{}, false
	}
	return l.categories[i], true
}

// Snapshot returns a copy of all categories in insertion order.
func (l *Ledger) Snapshot() []domain.BudgetCategory {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.BudgetCategory, len(l.categories))
	copy(out, l.categories)
	return out
}

// ByType returns a copy of the categories of type t in insertion order.
func (l *Ledger) ByType(t domain.CategoryType) []domain.BudgetCategory {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []domain.BudgetCategory
	for _, c := range l.categories {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Names returns the names of all categories, used to steer extraction
// towards existing categories.
func (l *Ledger) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.categories))
	for _, c := range l.categories {
		names = append(names, c.Name)
	}
	return names
}

// Len returns the number of categories.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.categories)
}

// Totals computes the dashboard aggregates from the current state.
func (l *Ledger) Totals() Totals {
	return ComputeTotals(l.Snapshot())
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.categories {
		if l.categories[i].ID == id {
			return i
		}
	}
	return -1
}
