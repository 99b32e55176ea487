package agent

import (
	"encoding/json"
	"strings"
)

// stripFences removes markdown code-fence markers the model tends to wrap
// JSON replies in.
func stripFences(s string) string {
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+len("```"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	return strings.TrimSpace(s)
}

// parseParams is the strict decode half of the strict-then-lenient policy:
// callers fall back to task-specific defaults when it errors.
func parseParams(raw string) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

func strArg(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// intArg coerces JSON numbers and clamps to min, so values like a zero room
// count never reach the backend.
func intArg(m map[string]any, key string, def, min int) int {
	out := def
	switch v := m[key].(type) {
	case float64:
		out = int(v)
	case int:
		out = v
	}
	if out < min {
		out = min
	}
	return out
}

func floatArg(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func strSliceArg(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}

func toJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
