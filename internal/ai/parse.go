package ai

import (
	"encoding/json"
	"strings"

	"github.com/inkwelldev/inkwell/internal/fault"
	"github.com/inkwelldev/inkwell/internal/models"
)

// ExtractJSON strips markdown code fences from a model reply that may wrap
// JSON in ```json ... ``` or ``` ... ``` blocks, and trims surrounding
// whitespace. Unfenced input passes through trimmed.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)

	if after, found := strings.CutPrefix(s, "```json"); found {
		if idx := strings.LastIndex(after, "```"); idx >= 0 {
			after = after[:idx]
		}
		return strings.TrimSpace(after)
	}

	if after, found := strings.CutPrefix(s, "```"); found {
		if idx := strings.LastIndex(after, "```"); idx >= 0 {
			after = after[:idx]
		}
		return strings.TrimSpace(after)
	}

	return s
}

// decodeCategorySuggestions decodes a categorization reply. Missing keys
// default to empty collections; invalid JSON is a parse_error fault.
func decodeCategorySuggestions(text string) (*models.CategorySuggestions, error) {
	var out models.CategorySuggestions
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &out); err != nil {
		return nil, fault.New(fault.KindParseError, "failed to parse AI categorization response")
	}
	return &out, nil
}

// decodeAudienceSuggestion decodes a suggest-audience reply.
func decodeAudienceSuggestion(text string) (*models.AudienceSuggestion, error) {
	var out models.AudienceSuggestion
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &out); err != nil {
		return nil, fault.New(fault.KindParseError, "failed to parse AI audience response")
	}
	return &out, nil
}
