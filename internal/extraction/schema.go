package extraction

import (
	"github.com/dvloznov/budget-tracker/internal/domain"
	"google.golang.org/genai"
)

// requiredFields must all be present in a model answer.
var requiredFields = []string{"merchant", "amount", "categoryName", "categoryType", "date"}

// responseSchema is the fixed output schema sent with every request.
func responseSchema() *genai.Schema {
	enum := make([]string, 0, len(domain.CategoryTypes))
	for _, t := range domain.CategoryTypes {
		enum = append(enum, string(t))
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"merchant":     {Type: genai.TypeString},
			"amount":       {Type: genai.TypeNumber},
			"categoryName": {Type: genai.TypeString},
			"categoryType": {Type: genai.TypeString, Enum: enum},
			"date":         {Type: genai.TypeString},
			"isRecurring":  {Type: genai.TypeBoolean},
		},
		Required: requiredFields,
	}
}
