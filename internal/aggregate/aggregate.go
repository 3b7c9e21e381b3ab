// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate fans a query out to every source adapter and
// concatenates their results in adapter-priority order.
package aggregate

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/paper-scout/internal/logging"
	"github.com/pdiddy/paper-scout/internal/sources"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// Gather calls every adapter concurrently and waits for all of them to
// finish. The returned outcomes are indexed like adapters. A failing
// adapter never cancels its siblings; each adapter bounds its own
// requests with the HTTP client timeout, so the caller's cancellation is
// not propagated into in-flight calls.
func Gather(ctx context.Context, adapters []sources.Adapter, query string, limit int, logger *zap.Logger) []sources.Outcome {
	logger = logging.OrNop(logger)
	outcomes := make([]sources.Outcome, len(adapters))
	if len(adapters) == 0 {
		return outcomes
	}

	callCtx := context.WithoutCancel(ctx)
	start := time.Now()

	var g errgroup.Group
	for i, a := range adapters {
		g.Go(func() error {
			outcomes[i] = sources.Run(callCtx, a, query, limit, logger)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
		}
	}
	logger.Debug("fan-out complete",
		zap.Int("sources", len(adapters)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))
	return outcomes
}

// Combine concatenates the papers of every outcome in order. Failed
// outcomes contribute nothing. No cross-source deduplication is done:
// two catalogs may return the same work under different links.
func Combine(outcomes []sources.Outcome) []types.Paper {
	n := 0
	for _, o := range outcomes {
		if !o.Failed() {
			n += len(o.Papers)
		}
	}
	papers := make([]types.Paper, 0, n)
	for _, o := range outcomes {
		if o.Failed() {
			continue
		}
		papers = append(papers, o.Papers...)
	}
	return papers
}

// Collect runs Gather followed by Combine.
func Collect(ctx context.Context, adapters []sources.Adapter, query string, limit int, logger *zap.Logger) []types.Paper {
	return Combine(Gather(ctx, adapters, query, limit, logger))
}

// Stats summarizes a set of outcomes for reporting.
type Stats struct {
	Source  string        `json:"source" yaml:"source"`
	Papers  int           `json:"papers" yaml:"papers"`
	Error   string        `json:"error,omitempty" yaml:"error,omitempty"`
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// Summarize converts outcomes into reportable Stats, one per source.
func Summarize(outcomes []sources.Outcome) []Stats {
	stats := make([]Stats, len(outcomes))
	for i, o := range outcomes {
		stats[i] = Stats{Source: o.Source, Papers: len(o.Papers), Elapsed: o.Elapsed}
		if o.Err != nil {
			stats[i].Papers = 0
			stats[i].Error = o.Err.Error()
		}
	}
	return stats
}
