// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline composes the stages of one paper-scout request:
// retrieve from every source, rank by relevance, then summarize the
// selected papers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paper-scout/internal/aggregate"
	"github.com/pdiddy/paper-scout/internal/extractive"
	"github.com/pdiddy/paper-scout/internal/generate"
	"github.com/pdiddy/paper-scout/internal/logging"
	"github.com/pdiddy/paper-scout/internal/rank"
	"github.com/pdiddy/paper-scout/internal/sources"
	"github.com/pdiddy/paper-scout/internal/synthesis"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// summarizeWorkers bounds concurrent per-paper summarization.
const summarizeWorkers = 4

// Engine holds the long-lived collaborators shared by every request.
type Engine struct {
	Adapters   []sources.Adapter
	Ranker     *rank.Ranker
	Summarizer *extractive.Summarizer

	// Synth produces abstractive rewrites. Nil means extractive only.
	Synth *synthesis.Synthesizer

	// Limit is the per-source result count (default 10).
	Limit int

	Logger *zap.Logger
}

// Result is the outcome of one retrieval request.
type Result struct {
	RunID      string            `json:"run_id" yaml:"run_id"`
	Query      string            `json:"query" yaml:"query"`
	Candidates int               `json:"candidates" yaml:"candidates"`
	Papers     []types.Paper     `json:"papers" yaml:"papers"`
	Sources    []aggregate.Stats `json:"sources" yaml:"sources"`
	Elapsed    time.Duration     `json:"elapsed" yaml:"elapsed"`
}

// RetrieveAndRank gathers candidates from every adapter and returns the
// topK most relevant. Source failures are recorded in Result.Sources and
// never returned. An empty query returns an empty Result without any
// network call. Only an embedding failure is returned as an error.
func (e *Engine) RetrieveAndRank(ctx context.Context, query string, topK int) (Result, error) {
	logger, runID := logging.WithRun(logging.OrNop(e.Logger))
	query = strings.TrimSpace(query)
	res := Result{RunID: runID, Query: query, Papers: []types.Paper{}, Sources: []aggregate.Stats{}}
	if query == "" {
		logger.Debug("empty query, nothing to retrieve")
		return res, nil
	}
	start := time.Now()

	outcomes := aggregate.Gather(ctx, e.Adapters, query, e.Limit, logger)
	candidates := aggregate.Combine(outcomes)
	res.Sources = aggregate.Summarize(outcomes)
	res.Candidates = len(candidates)

	ranked, err := e.Ranker.Rank(ctx, query, candidates, topK)
	if err != nil {
		return res, fmt.Errorf("ranking %d candidates: %w", len(candidates), err)
	}
	res.Papers = ranked
	res.Elapsed = time.Since(start)

	logger.Info("retrieval complete",
		zap.String("query", query),
		zap.Int("candidates", res.Candidates),
		zap.Int("ranked", len(ranked)),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// SummarizePapers builds a Summary for every paper, in input order. The
// extractive summary keeps the topN most representative abstract
// sentences. The abstractive summary is generated from it; when no
// generator is configured or generation fails it equals the extractive
// summary. A paper with an empty abstract gets empty summaries. An
// embedding failure aborts the whole call.
func (e *Engine) SummarizePapers(ctx context.Context, papers []types.Paper, topN int) ([]types.Summary, error) {
	logger := logging.OrNop(e.Logger)
	out := make([]types.Summary, len(papers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summarizeWorkers)
	for i, p := range papers {
		g.Go(func() error {
			s, err := e.summarize(gctx, p, topN, logger)
			if err != nil {
				return fmt.Errorf("summarizing %q: %w", p.Title, err)
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Engine) summarize(ctx context.Context, p types.Paper, topN int, logger *zap.Logger) (types.Summary, error) {
	authors := p.Authors
	if authors == nil {
		authors = []string{}
	}
	s := types.Summary{Title: p.Title, Authors: authors, Link: p.Link, Source: p.Source}

	abstract := strings.TrimSpace(p.Abstract)
	if abstract == "" {
		return s, nil
	}
	ext, err := e.Summarizer.Summarize(ctx, abstract, topN)
	if err != nil {
		return s, err
	}
	s.Extractive = ext
	s.Abstractive = ext

	if e.Synth == nil {
		return s, nil
	}
	abs, err := e.Synth.Abstractive(ctx, p.Title, ext, abstract)
	switch {
	case errors.Is(err, generate.ErrNoGenerator):
	case err != nil:
		logger.Warn("abstractive generation failed, keeping extractive summary",
			zap.String("title", p.Title), zap.Error(err))
	case strings.TrimSpace(abs) != "":
		s.Abstractive = strings.TrimSpace(abs)
	}
	return s, nil
}
