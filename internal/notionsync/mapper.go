package notionsync

import (
	"github.com/dvloznov/budget-tracker/internal/domain"
	"github.com/dvloznov/budget-tracker/internal/ledger"
	"github.com/jomei/notionapi"
)

// Property names of the Notion budget database.
const (
	PropCategoryID = "Category ID"
	PropName       = "Name"
	PropType       = "Type"
	PropBudgeted   = "Budgeted"
	PropSpent      = "Spent"
	PropRemaining  = "Remaining"
	PropStatus     = "Status"
	PropDueDay     = "Due Day"
	PropRecurring  = "Recurring"
	PropCurrency   = "Currency"
)

// requiredColumns are written on every sync, plus the optional due day.
var requiredColumns = []string{
	PropCategoryID, PropName, PropType, PropBudgeted, PropSpent,
	PropRemaining, PropStatus, PropDueDay, PropRecurring, PropCurrency,
}

// MissingColumns returns the budget columns absent from columns, in the
// order the export writes them.
func MissingColumns(columns []string) []string {
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}

	var missing []string
	for _, c := range requiredColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// CategoryToNotionProperties converts a ledger category to Notion properties.
// The category id is the page title so pages can be matched on later syncs.
func CategoryToNotionProperties(c domain.BudgetCategory) notionapi.Properties {
	props := notionapi.Properties{
		PropCategoryID: notionapi.TitleProperty{
			Title: richText(c.ID),
		},
		PropName: notionapi.RichTextProperty{
			RichText: richText(c.Name),
		},
		PropType: notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: string(c.Type),
			},
		},
		PropBudgeted: notionapi.NumberProperty{
			Number: c.BudgetedAmount,
		},
		PropSpent: notionapi.NumberProperty{
			Number: c.SpentAmount,
		},
		PropRemaining: notionapi.NumberProperty{
			Number: c.BudgetedAmount - c.SpentAmount,
		},
		PropStatus: notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: string(ledger.Status(c)),
			},
		},
		PropRecurring: notionapi.CheckboxProperty{
			Checkbox: c.IsRecurring,
		},
		PropCurrency: notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: domain.DefaultCurrency,
			},
		},
	}

	// Due day only applies to bills that have one
	if c.DueDate != 0 {
		props[PropDueDay] = notionapi.NumberProperty{
			Number: float64(c.DueDate),
		}
	}

	return props
}

// extractCategoryID extracts the category ID from a Notion page's title.
// Returns empty string if not found.
func extractCategoryID(page notionapi.Page) string {
	if prop, ok := page.Properties[PropCategoryID]; ok {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			if len(title.Title) > 0 {
				return title.Title[0].PlainText
			}
		}
	}
	return ""
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{
				Content: content,
			},
		},
	}
}
