package claude

import (
	"encoding/json"
	"strings"
)

// messagesResponse is the subset of the Messages API response we consume.
type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type  string          `json:"type"`
	Name  string          `json:"name,omitempty"`
	Text  string          `json:"text,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

// toolInput returns the decoded input of the extract tool call, or nil when
// the model answered without using the tool.
func (r *messagesResponse) toolInput() interface{} {
	for _, block := range r.Content {
		if block.Type != "tool_use" || block.Name != toolName {
			continue
		}
		var parsed interface{}
		if err := json.Unmarshal(block.Input, &parsed); err != nil {
			return nil
		}
		return parsed
	}
	return nil
}

// text concatenates all text blocks of the response.
func (r *messagesResponse) text() string {
	var parts []string
	for _, block := range r.Content {
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}
