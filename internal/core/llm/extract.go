package llm

import (
	"encoding/json"
	"strings"
)

// extractJSON tries to extract JSON from a response that might have extra
// text around it (markdown fences, preamble, trailing commentary).
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	start = strings.Index(text, "[")
	end = strings.LastIndex(text, "]")

	if start != -1 && end != -1 && end > start {
		return text[start : end+1]
	}

	return text
}

// decodeModelOutput turns raw model text into a JSON value. Unparseable
// output is returned as the raw string: downstream schema repair absorbs it
// into a neutral result instead of failing the item.
func decodeModelOutput(text string) any {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	var value any
	if err := json.Unmarshal([]byte(trimmed), &value); err == nil {
		return value
	}

	snippet := extractJSON(trimmed)
	if snippet != trimmed {
		if err := json.Unmarshal([]byte(snippet), &value); err == nil {
			return value
		}
	}

	return trimmed
}
