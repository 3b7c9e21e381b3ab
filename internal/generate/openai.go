// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAI generates text with the Chat Completions API.
type OpenAI struct {
	client openai.Client
	model  string
}

// NewOpenAI returns a chat generator. baseURL may point at any
// OpenAI-compatible server.
func NewOpenAI(apiKey, baseURL, model string, httpClient *http.Client) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: OpenAI API key is required", ErrNoGenerator)
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAI{client: openai.NewClient(opts...), model: model}, nil
}

// Name returns the backend and model identifier.
func (g *OpenAI) Name() string { return "openai:" + g.model }

// Generate sends a system and a user message and returns the first choice.
func (g *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.system()),
			openai.UserMessage(req.Prompt),
		},
		MaxTokens:   openai.Int(int64(req.maxTokens())),
		Temperature: openai.Float(req.Temperature),
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("OpenAI chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
