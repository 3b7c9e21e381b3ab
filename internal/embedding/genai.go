// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embedding

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const defaultGenAIEmbeddingModel = "gemini-embedding-001"

// GenAIModel embeds text with Google's Gemini API.
type GenAIModel struct {
	client *genai.Client
	model  string
}

// NewGenAIModel creates a Gemini client for model.
func NewGenAIModel(ctx context.Context, apiKey, model string, httpClient *http.Client) (*GenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = defaultGenAIEmbeddingModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("creating GenAI client: %w", err)
	}
	return &GenAIModel{client: client, model: model}, nil
}

// Name returns the backend and model identifier.
func (m *GenAIModel) Name() string { return "genai:" + m.model }

// EmbedBatch embeds all texts in one request using the semantic
// similarity task type.
func (m *GenAIModel) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}

	result, err := m.client.Models.EmbedContent(ctx, m.model, contents, &genai.EmbedContentConfig{
		TaskType: "SEMANTIC_SIMILARITY",
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI embed: %w", err)
	}

	out := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		if emb == nil {
			return nil, fmt.Errorf("GenAI returned empty embedding %d", i)
		}
		out[i] = emb.Values
	}
	return out, nil
}
