package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dvloznov/budget-tracker/internal/api/middleware"
	"github.com/dvloznov/budget-tracker/internal/app"
	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/ledger"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CategoriesHandler handles category-related endpoints.
type CategoriesHandler struct {
	app *app.App
	log zerolog.Logger
}

// NewCategoriesHandler creates a new categories handler.
func NewCategoriesHandler(a *app.App, log zerolog.Logger) *CategoriesHandler {
	return &CategoriesHandler{app: a, log: log}
}

// ListCategories handles GET /api/categories
// Optional query parameter: type (income, bill, expense, savings, debt)
func (h *CategoriesHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.app.Categories()

	if raw := r.URL.Query().Get("type"); raw != "" {
		t, err := domain.ParseCategoryType(raw)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		categories = h.app.Ledger().ByType(t)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}

// CreateCategory handles POST /api/categories
func (h *CategoriesHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if err := decodeBody(r, &req, false); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := domain.ParseCategoryType(req.Type)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.app.CreateCategory(t)
	if err != nil {
		writeAppError(w, r, err, "Failed to create category")
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, c)
}

// UpdateCategory handles PATCH /api/categories/{id}
// Body: {"field": "budgetedAmount", "value": 9000}
func (h *CategoriesHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Field string          `json:"field"`
		Value json.RawMessage `json:"value"`
	}
	if err := decodeBody(r, &req, false); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := parseUpdate(req.Field, req.Value)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.app.UpdateCategory(id, u)
	if err != nil {
		writeAppError(w, r, err, "Failed to update category")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, c)
}

// DeleteCategory handles DELETE /api/categories/{id}
func (h *CategoriesHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.app.DeleteCategory(id); err != nil {
		writeAppError(w, r, err, "Failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseUpdate turns a field name and JSON value into a typed ledger update.
func parseUpdate(field string, value json.RawMessage) (ledger.Update, error) {
	if len(value) == 0 {
		return nil, fmt.Errorf("value is required")
	}

	switch field {
	case "name":
		var v string
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, fmt.Errorf("name must be a string")
		}
		return ledger.Rename{Name: v}, nil
	case "budgetedAmount":
		var v float64
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, fmt.Errorf("budgetedAmount must be a number")
		}
		return ledger.Rebudget{Amount: v}, nil
	case "spentAmount":
		var v float64
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, fmt.Errorf("spentAmount must be a number")
		}
		return ledger.ResetSpent{Amount: v}, nil
	case "type":
		var v string
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, fmt.Errorf("type must be a string")
		}
		return ledger.Retype{Type: domain.CategoryType(v)}, nil
	case "dueDate":
		var v int
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, fmt.Errorf("dueDate must be a whole number")
		}
		return ledger.SetDueDate{Day: v}, nil
	case "isRecurring":
		var v bool
		if err := json.Unmarshal(value, &v); err != nil {
			return nil, fmt.Errorf("isRecurring must be a boolean")
		}
		return ledger.SetRecurring{Recurring: v}, nil
	default:
		return nil, fmt.Errorf("unknown field %q", field)
	}
}
