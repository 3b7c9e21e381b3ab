// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/httputil"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const (
	defaultClaudeModel = "claude-sonnet-4-5"
	anthropicVersion   = "2023-06-01"
)

// Claude calls the Claude Messages API.
type Claude struct {
	APIKey string
	Model  string
	Client *http.Client
	Logger *zap.Logger
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	System      string          `json:"system,omitempty"`
	Temperature float64         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content    []claudeContent `json:"content"`
	StopReason string          `json:"stop_reason"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *Claude) model() string {
	if c.Model == "" {
		return defaultClaudeModel
	}
	return c.Model
}

// Name returns the backend and model identifier.
func (c *Claude) Name() string { return "claude:" + c.model() }

// Generate sends one user message and concatenates the text blocks of the
// reply. The Messages API has no JSON response mode, so a JSON request is
// expressed in the system prompt.
func (c *Claude) Generate(ctx context.Context, req Request) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("%w: Claude API key is required", ErrNoGenerator)
	}
	system := req.system()
	if req.JSON {
		system += " Respond with a single JSON object and no other text."
	}

	body := claudeRequest{
		Model:       c.model(),
		MaxTokens:   req.maxTokens(),
		System:      system,
		Temperature: req.Temperature,
		Messages:    []claudeMessage{{Role: "user", Content: req.Prompt}},
	}
	headers := http.Header{
		"x-api-key":         {c.APIKey},
		"anthropic-version": {anthropicVersion},
	}

	var cResp claudeResponse
	if err := httputil.PostJSON(ctx, c.Client, claudeAPIURL, headers, body, &cResp, c.Logger); err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}

	var b strings.Builder
	for _, block := range cResp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("no text content in Claude API response")
	}
	return text, nil
}
