package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeJSON extracts and unmarshals a single JSON object from model
// output. Models wrap JSON in code fences or prose often enough that the
// raw text cannot be unmarshaled directly; this trims to the outermost
// object first. Callers map a returned error to their safe default.
func DecodeJSON(text string, target any) error {
	cleaned := strings.TrimSpace(text)

	// Strip markdown code fences.
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return fmt.Errorf("no JSON object in model output")
	}

	if err := json.Unmarshal([]byte(cleaned[start:end+1]), target); err != nil {
		return fmt.Errorf("unmarshal model output: %w", err)
	}
	return nil
}
