package claude

import (
	"encoding/json"
	"strings"
)

// cleanJSONText strips markdown code fences and trims the text down to the
// outermost JSON value, so prose around the payload does not break decoding.
func cleanJSONText(text string) string {
	cleaned := strings.TrimSpace(text)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	// Slice to the first opening bracket and the matching last close.
	objStart := strings.Index(cleaned, "{")
	arrStart := strings.Index(cleaned, "[")
	start, closer := objStart, "}"
	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		start, closer = arrStart, "]"
	}
	if start < 0 {
		return cleaned
	}
	end := strings.LastIndex(cleaned, closer)
	if end <= start {
		return cleaned
	}
	return cleaned[start : end+1]
}

// tryParseJSON decodes text as a JSON value, returning nil when it is not
// valid JSON.
func tryParseJSON(text string) interface{} {
	var parsed interface{}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil
	}
	return parsed
}

// rowsFromParsed normalizes a decoded JSON value into a slice of row maps.
// Accepted shapes: a bare array of objects, or an object wrapping the array
// under a "products" or "rows" key. A single object becomes a one-row slice.
func rowsFromParsed(parsed interface{}) []map[string]interface{} {
	switch v := parsed.(type) {
	case []interface{}:
		return objectSlice(v)
	case map[string]interface{}:
		for _, key := range []string{"products", "rows", "items", "data"} {
			if inner, ok := v[key].([]interface{}); ok {
				return objectSlice(inner)
			}
		}
		return []map[string]interface{}{v}
	default:
		return nil
	}
}

func objectSlice(items []interface{}) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]interface{}); ok {
			rows = append(rows, obj)
		}
	}
	return rows
}
