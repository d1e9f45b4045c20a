package claude

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// BaseURL is the Anthropic Messages API endpoint.
	BaseURL = "https://api.anthropic.com/v1/messages"

	apiVersion = "2023-06-01"
	toolName   = "extract_products"
)

// Client is a minimal HTTP client for extracting delivery-sheet rows through
// the Anthropic Messages API.
type Client struct {
	httpClient    *http.Client
	apiKey        string
	model         string
	fallbackModel string
}

// NewClient constructs a new extraction client with sane defaults. The
// fallback model is used when the primary model is unknown to the API.
func NewClient(apiKey, model, fallbackModel string) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: 90 * time.Second},
		apiKey:        apiKey,
		model:         model,
		fallbackModel: fallbackModel,
	}
}

// Document is a delivery sheet to extract rows from. MediaType must be
// application/pdf or an image/* type.
type Document struct {
	Name      string
	MediaType string
	Data      []byte
}

// Extract sends a document to the API and returns the extracted rows as loose
// maps. Field keys vary with the sheet locale; callers coalesce them. The
// structured tool output is preferred, with free-text JSON recovery as an
// internal retry when the model answers in prose.
func (c *Client) Extract(ctx context.Context, doc Document, templateHint string) ([]map[string]interface{}, error) {
	body, err := c.call(ctx, c.model, doc, templateHint)
	if err != nil {
		if isModelNotFound(err) && c.fallbackModel != "" {
			log.Warn().Str("model", c.model).Str("fallback", c.fallbackModel).
				Msg("Primary extraction model unavailable, retrying with fallback")
			body, err = c.call(ctx, c.fallbackModel, doc, templateHint)
		}
		if err != nil {
			return nil, err
		}
	}

	// Prefer structured tool output.
	if input := body.toolInput(); input != nil {
		return rowsFromParsed(input), nil
	}

	// Fall back to recovering JSON from the text content.
	parsed := tryParseJSON(cleanJSONText(body.text()))
	if parsed == nil {
		return nil, fmt.Errorf("no parsable rows in extraction response")
	}
	return rowsFromParsed(parsed), nil
}

// call performs a single Messages API request with the given model.
func (c *Client) call(ctx context.Context, model string, doc Document, templateHint string) (*messagesResponse, error) {
	source := map[string]string{
		"type":       "base64",
		"media_type": doc.MediaType,
		"data":       base64.StdEncoding.EncodeToString(doc.Data),
	}
	blockType := "image"
	if doc.MediaType == "application/pdf" {
		blockType = "document"
	}

	reqBody := map[string]interface{}{
		"model":       model,
		"max_tokens":  1200,
		"temperature": 0,
		"tools":       []interface{}{extractTool},
		"tool_choice": map[string]string{"type": "tool", "name": toolName},
		"messages": []interface{}{
			map[string]interface{}{
				"role": "user",
				"content": []interface{}{
					map[string]string{"type": "text", "text": buildPrompt(templateHint)},
					map[string]interface{}{"type": blockType, "source": source},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", BaseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var body messagesResponse
	if err := json.Unmarshal(respBody, &body); err != nil {
		return nil, fmt.Errorf("failed to decode extraction response: %w", err)
	}
	return &body, nil
}

// isModelNotFound reports whether the error indicates an unknown model, the
// only condition worth retrying on the fallback model.
func isModelNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not_found_error") && strings.Contains(msg, "model")
}
