// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const defaultGenAIModel = "gemini-2.5-flash"

// GenAI generates text with Google's Gemini API.
type GenAI struct {
	client *genai.Client
	model  string
}

// NewGenAI creates a Gemini client for model.
func NewGenAI(ctx context.Context, apiKey, model string, httpClient *http.Client) (*GenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GenAI API key is required", ErrNoGenerator)
	}
	if model == "" {
		model = defaultGenAIModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("creating GenAI client: %w", err)
	}
	return &GenAI{client: client, model: model}, nil
}

// Name returns the backend and model identifier.
func (g *GenAI) Name() string { return "genai:" + g.model }

// Generate runs one GenerateContent call.
func (g *GenAI) Generate(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.system(), genai.RoleUser),
		Temperature:       genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens:   int32(req.maxTokens()),
	}
	if req.JSON {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("GenAI generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("GenAI returned no text")
	}
	return text, nil
}
