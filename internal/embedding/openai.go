// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const defaultOpenAIEmbeddingModel = "text-embedding-3-small"

// OpenAIModel embeds text with the OpenAI embeddings API or any
// OpenAI-compatible endpoint.
type OpenAIModel struct {
	client openai.Client
	model  string
}

// NewOpenAIModel returns a model using apiKey. baseURL may point at an
// OpenAI-compatible server; empty means the public API.
func NewOpenAIModel(apiKey, baseURL, model string, httpClient *http.Client) (*OpenAIModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = defaultOpenAIEmbeddingModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &OpenAIModel{client: openai.NewClient(opts...), model: model}, nil
}

// Name returns the backend and model identifier.
func (m *OpenAIModel) Name() string { return "openai:" + m.model }

// EmbedBatch embeds all texts in one request. The API may return data out
// of order; vectors are placed by their index field.
func (m *OpenAIModel) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := m.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(m.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("OpenAI returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(out) {
			return nil, fmt.Errorf("OpenAI returned embedding index %d out of range", d.Index)
		}
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		out[d.Index] = vec
	}
	return out, nil
}
