// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embedding

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/httputil"
	"github.com/pdiddy/paper-scout/internal/logging"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// probeText is embedded once at load time so an unreachable or
// misconfigured backend fails on first use rather than mid-ranking.
const probeText = "paper-scout embedding probe"

// FromConfig returns a lazily loading Provider for cfg.Backend. Nothing
// touches the network until the first embedding request.
func FromConfig(cfg types.EmbeddingConfig, logger *zap.Logger) (*Provider, error) {
	logger = logging.OrNop(logger).With(zap.String("component", "embedding"))
	client := httputil.NewClient(types.HTTPConfig{Timeout: cfg.Timeout})

	var load Loader
	switch cfg.Backend {
	case types.EmbeddingOllama, "":
		load = func(ctx context.Context) (Model, error) {
			return probe(ctx, NewOllamaModel(cfg.BaseURL, cfg.Model, client, logger))
		}
	case types.EmbeddingOpenAI:
		load = func(ctx context.Context) (Model, error) {
			m, err := NewOpenAIModel(cfg.APIKey, cfg.BaseURL, cfg.Model, client)
			if err != nil {
				return nil, err
			}
			return probe(ctx, m)
		}
	case types.EmbeddingGenAI:
		load = func(ctx context.Context) (Model, error) {
			m, err := NewGenAIModel(ctx, cfg.APIKey, cfg.Model, client)
			if err != nil {
				return nil, err
			}
			return probe(ctx, m)
		}
	case types.EmbeddingLexical:
		load = func(context.Context) (Model, error) {
			return NewLexicalModel(cfg.Dimensions), nil
		}
	default:
		return nil, fmt.Errorf("unsupported embedding backend %q (use ollama, openai, genai, lexical)", cfg.Backend)
	}

	logger.Debug("embedding provider configured", zap.String("backend", string(cfg.Backend)), zap.String("model", cfg.Model))
	return NewProvider(load, logger), nil
}

func probe(ctx context.Context, m Model) (Model, error) {
	vecs, err := m.EmbedBatch(ctx, []string{probeText})
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", m.Name(), err)
	}
	if len(vecs) != 1 || len(vecs[0]) == 0 {
		return nil, fmt.Errorf("probing %s: empty embedding", m.Name())
	}
	return m, nil
}
