// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embedding

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/httputil"
)

const (
	defaultOllamaEndpoint = "http://localhost:11434"
	defaultOllamaModel    = "all-minilm"
)

// OllamaModel embeds text with a local Ollama server through its native
// batch endpoint.
type OllamaModel struct {
	endpoint string
	model    string
	client   *http.Client
	logger   *zap.Logger
}

// NewOllamaModel returns a model bound to endpoint. Empty arguments take
// the local defaults.
func NewOllamaModel(endpoint, model string, client *http.Client, logger *zap.Logger) *OllamaModel {
	if endpoint == "" {
		endpoint = defaultOllamaEndpoint
	}
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaModel{
		endpoint: strings.TrimRight(endpoint, "/"),
		model:    model,
		client:   client,
		logger:   logger,
	}
}

// Name returns the backend and model identifier.
func (m *OllamaModel) Name() string { return "ollama:" + m.model }

// EmbedBatch sends every text in one /api/embed request.
func (m *OllamaModel) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	req := ollamaEmbedRequest{Model: m.model, Input: texts}
	var resp ollamaEmbedResponse
	if err := httputil.PostJSON(ctx, m.client, m.endpoint+"/api/embed", nil, req, &resp, m.logger); err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	return resp.Embeddings, nil
}

type ollamaEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}
