// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/embedding"
	"github.com/pdiddy/paper-scout/internal/extractive"
	"github.com/pdiddy/paper-scout/internal/generate"
	"github.com/pdiddy/paper-scout/internal/logging"
	"github.com/pdiddy/paper-scout/internal/pipeline"
	"github.com/pdiddy/paper-scout/internal/rank"
	"github.com/pdiddy/paper-scout/internal/sources"
	"github.com/pdiddy/paper-scout/internal/synthesis"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// buildEngine wires the pipeline from cfg. withSources is false for
// commands that read papers from a file. A missing generator is not an
// error: the engine then produces extractive summaries only.
func buildEngine(ctx context.Context, cfg types.PipelineConfig, withSources bool, logger *zap.Logger) (*pipeline.Engine, error) {
	logger = logging.OrNop(logger)
	provider, err := embedding.FromConfig(cfg.Embedding, logger)
	if err != nil {
		return nil, err
	}
	summarizer, err := extractive.New(provider, nil, logger)
	if err != nil {
		return nil, err
	}

	e := &pipeline.Engine{
		Ranker:     rank.New(provider, logger),
		Summarizer: summarizer,
		Limit:      cfg.Sources.Limit,
		Logger:     logger,
	}
	if withSources {
		if e.Adapters, err = sources.FromConfig(cfg.Sources, logger); err != nil {
			return nil, err
		}
	}

	synth, err := buildSynthesizer(ctx, cfg.Generation, logger)
	switch {
	case errors.Is(err, generate.ErrNoGenerator):
		logger.Debug("no generator configured, abstractive summaries disabled", zap.Error(err))
	case err != nil:
		return nil, err
	default:
		e.Synth = synth
	}
	return e, nil
}

// buildSynthesizer returns generate.ErrNoGenerator (wrapped) when no
// generation backend is usable.
func buildSynthesizer(ctx context.Context, cfg types.GenerationConfig, logger *zap.Logger) (*synthesis.Synthesizer, error) {
	gen, err := generate.FromConfig(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	tok := generate.DefaultTokenizer(cfg.Model, logger)
	return synthesis.New(gen, tok, cfg, logger), nil
}

// openInput opens path for reading; "" and "-" mean stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return f, nil
}

func inputArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
