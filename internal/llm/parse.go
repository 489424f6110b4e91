package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripCodeFences removes one level of markdown fencing around a payload.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

// DecodeArray parses raw model output into out, a pointer to a slice.
// It tolerates markdown fencing, a single bare object instead of an array,
// and leading/trailing prose around the outermost [...] span.
func DecodeArray(raw string, out any) error {
	t := StripCodeFences(raw)
	if strings.HasPrefix(t, "{") && strings.HasSuffix(t, "}") {
		wrapped := "[" + t + "]"
		if err := json.Unmarshal([]byte(wrapped), out); err == nil {
			return nil
		}
	}
	if start, end := strings.Index(t, "["), strings.LastIndex(t, "]"); start != -1 && end > start {
		t = t[start : end+1]
	}
	if err := json.Unmarshal([]byte(t), out); err != nil {
		return fmt.Errorf("decode json array: %w", err)
	}
	return nil
}
