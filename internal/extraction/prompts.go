package extraction

import (
	"strings"

	"github.com/dvloznov/budget-tracker/internal/domain"
)

// buildCategoriesPrompt lists the user's existing categories so the model
// reuses one of them when the transaction fits.
func buildCategoriesPrompt(knownCategoryNames []string) string {
	var b strings.Builder
	b.WriteString("Existing User Categories: [")
	b.WriteString(strings.Join(knownCategoryNames, ", "))
	b.WriteString("].\n")
	b.WriteString("If the transaction fits one of these, use that EXACT name (case-sensitive). ")
	b.WriteString("Otherwise, suggest a new one.\n")
	return b.String()
}

func categoryTypeList() string {
	quoted := make([]string, 0, len(domain.CategoryTypes))
	for _, t := range domain.CategoryTypes {
		quoted = append(quoted, "'"+string(t)+"'")
	}
	return strings.Join(quoted, ", ")
}

// buildTextPrompt builds the full instruction for a free-text entry.
func buildTextPrompt(text string, knownCategoryNames []string, localeHint string) string {
	var b strings.Builder
	b.WriteString("Analyze the following transaction text.\n")
	b.WriteString("Extract the merchant/description, amount, date (YYYY-MM-DD), and infer the best category name and type.\n\n")
	b.WriteString("Context: " + localeHint + "\n\n")
	b.WriteString(buildCategoriesPrompt(knownCategoryNames))
	b.WriteString("\nThe category types must be one of: " + categoryTypeList() + ".\n\n")
	b.WriteString("Also determine if this looks like a recurring bill based on the context (e.g., \"monthly\", \"subscription\", \"bill\").\n\n")
	b.WriteString("Text: " + quoteForPrompt(text) + "\n")
	return b.String()
}

// buildImagePrompt builds the instruction sent next to a receipt image.
func buildImagePrompt(knownCategoryNames []string, localeHint string) string {
	var b strings.Builder
	b.WriteString("Analyze this receipt/screenshot. Extract merchant, amount, date (YYYY-MM-DD).\n")
	b.WriteString("Context: " + localeHint + "\n")
	b.WriteString(buildCategoriesPrompt(knownCategoryNames))
	b.WriteString("The category types must be one of: " + categoryTypeList() + ".\n")
	b.WriteString("Detect if it's a recurring bill.\n")
	return b.String()
}

// quoteForPrompt wraps user text in quotes, neutralising embedded quotes so
// the text can't close the quoted block early.
func quoteForPrompt(s string) string {
	return "\"" + strings.ReplaceAll(strings.TrimSpace(s), "\"", "'") + "\""
}
