package extraction

import (
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/budget-tracker/internal/domain"
)

// transformModelOutput converts the decoded JSON object returned by the model
// into an ExtractionResult. Every required field must be present and well
// typed; nothing is coerced.
func transformModelOutput(obj map[string]interface{}) (domain.ExtractionResult, error) {
	merchant, err := getStringField(obj, "merchant", true)
	if err != nil {
		return domain.ExtractionResult{}, err
	}
	amount, err := getFloat64Field(obj, "amount", true)
	if err != nil {
		return domain.ExtractionResult{}, err
	}
	categoryName, err := getStringField(obj, "categoryName", true)
	if err != nil {
		return domain.ExtractionResult{}, err
	}
	categoryTypeStr, err := getStringField(obj, "categoryType", true)
	if err != nil {
		return domain.ExtractionResult{}, err
	}
	dateStr, err := getStringField(obj, "date", true)
	if err != nil {
		return domain.ExtractionResult{}, err
	}
	recurring, err := getOptionalBoolField(obj, "isRecurring")
	if err != nil {
		return domain.ExtractionResult{}, err
	}

	categoryType, err := domain.ParseCategoryType(categoryTypeStr)
	if err != nil {
		return domain.ExtractionResult{}, &ExtractionError{Kind: KindSchema, Field: "categoryType", Err: err}
	}

	dateStr = strings.TrimSpace(dateStr)
	if _, err := time.Parse(domain.DateLayout, dateStr); err != nil {
		return domain.ExtractionResult{}, &ExtractionError{
			Kind:  KindSchema,
			Field: "date",
			Err:   fmt.Errorf("invalid date %q: %w", dateStr, err),
		}
	}

	return domain.ExtractionResult{
		Merchant:     strings.TrimSpace(merchant),
		Amount:       amount,
		CategoryName: strings.TrimSpace(categoryName),
		CategoryType: categoryType,
		Date:         dateStr,
		IsRecurring:  recurring,
	}, nil
}

func getStringField(m map[string]interface{}, key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return "", &ExtractionError{Kind: KindMissingField, Field: key, Err: fmt.Errorf("missing required field %q", key)}
		}
		return "", nil
	}
	switch val := v.(type) {
	case string:
		if required && strings.TrimSpace(val) == "" {
			return "", &ExtractionError{Kind: KindMissingField, Field: key, Err: fmt.Errorf("required field %q is empty", key)}
		}
		return val, nil
	default:
		return "", &ExtractionError{Kind: KindSchema, Field: key, Err: fmt.Errorf("field %q has type %T, want string", key, v)}
	}
}

func getFloat64Field(m map[string]interface{}, key string, required bool) (float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		if required {
			return 0, &ExtractionError{Kind: KindMissingField, Field: key, Err: fmt.Errorf("missing required field %q", key)}
		}
		return 0, nil
	}
	switch val := v.(type) {
	case float64:
		return val, nil
	case int: // unlikely from encoding/json, but harmless to support
		return float64(val), nil
	default:
		return 0, &ExtractionError{Kind: KindSchema, Field: key, Err: fmt.Errorf("field %q has type %T, want number", key, v)}
	}
}

func getOptionalBoolField(m map[string]interface{}, key string) (bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, &ExtractionError{Kind: KindSchema, Field: key, Err: fmt.Errorf("field %q has type %T, want boolean or null", key, v)}
	}
	return b, nil
}
