// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate wraps the external text-generation services used for
// abstractive summaries, insight synthesis, and research plans. Every
// backend takes the same Request and returns plain text.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/httputil"
	"github.com/pdiddy/paper-scout/internal/logging"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// ErrNoGenerator reports that no generation backend is configured, either
// by choice (backend "none") or because its credentials are missing.
// Callers that can degrade (abstractive summaries) check for it with
// errors.Is.
var ErrNoGenerator = errors.New("no text generator configured")

// DefaultSystemPrompt is sent when a Request leaves System empty.
const DefaultSystemPrompt = "You are a helpful, concise research assistant."

// Request is one generation call.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64

	// JSON asks the backend for a single JSON object as the response.
	JSON bool
}

// Generator produces text for a prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

func (r Request) system() string {
	if r.System == "" {
		return DefaultSystemPrompt
	}
	return r.System
}

func (r Request) maxTokens() int {
	if r.MaxTokens <= 0 {
		return 500
	}
	return r.MaxTokens
}

// FromConfig builds the configured backend. It returns ErrNoGenerator
// for backend "none" and for a backend with no API key. ctx bounds
// client construction only.
func FromConfig(ctx context.Context, cfg types.GenerationConfig, logger *zap.Logger) (Generator, error) {
	logger = logging.OrNop(logger).With(zap.String("component", "generate"))
	backend := cfg.Backend
	if backend == "" {
		backend = types.GenerationNone
	}
	if backend == types.GenerationNone {
		return nil, ErrNoGenerator
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: %s backend has no API key", ErrNoGenerator, backend)
	}

	client := httputil.NewClient(types.HTTPConfig{Timeout: cfg.Timeout})
	var (
		gen Generator
		err error
	)
	switch backend {
	case types.GenerationOpenAI:
		gen, err = NewOpenAI(cfg.APIKey, cfg.BaseURL, cfg.Model, client)
	case types.GenerationGenAI:
		gen, err = NewGenAI(ctx, cfg.APIKey, cfg.Model, client)
	case types.GenerationClaude:
		gen = &Claude{APIKey: cfg.APIKey, Model: cfg.Model, Client: client, Logger: logger}
	default:
		return nil, fmt.Errorf("unsupported generation backend %q (use none, openai, genai, claude)", backend)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("generator configured", zap.String("generator", gen.Name()))
	return gen, nil
}
