// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources holds one adapter per external catalog. Each adapter
// fetches raw records for a query, maps them into types.Paper, and keeps
// every failure inside its own boundary: a failed catalog yields an
// Outcome with an error and no papers, and a malformed record is skipped
// without discarding its siblings.
package sources

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/httputil"
	"github.com/pdiddy/paper-scout/internal/logging"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// defaultLimit is the per-source result count when the caller passes
// limit <= 0.
const defaultLimit = 10

// Adapter fetches papers for a query from one external catalog.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, query string, limit int) ([]types.Paper, error)
}

// Outcome is the typed result of one adapter call. Err distinguishes a
// failed catalog from one that simply had no matches; both carry no
// papers as far as the pipeline is concerned.
type Outcome struct {
	Source  string
	Papers  []types.Paper
	Err     error
	Elapsed time.Duration
}

// Failed reports whether the catalog call failed.
func (o Outcome) Failed() bool { return o.Err != nil }

// Run calls a.Fetch and converts every failure mode, panics included,
// into an Outcome. Papers that come back are finalized so that Source is
// set and Authors is never nil.
func Run(ctx context.Context, a Adapter, query string, limit int, logger *zap.Logger) (out Outcome) {
	logger = logging.OrNop(logger).With(zap.String("source", a.Name()))
	out.Source = a.Name()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			out.Papers = nil
			out.Err = fmt.Errorf("%s adapter panicked: %v", a.Name(), r)
		}
		out.Elapsed = time.Since(start)
		if out.Err != nil {
			logger.Warn("source failed", zap.Error(out.Err), zap.Duration("elapsed", out.Elapsed))
			return
		}
		logger.Info("source fetched", zap.Int("papers", len(out.Papers)), zap.Duration("elapsed", out.Elapsed))
	}()

	papers, err := a.Fetch(ctx, query, limit)
	if err != nil {
		out.Err = err
		return out
	}
	out.Papers = finalize(papers, a.Name())
	return out
}

func finalize(papers []types.Paper, source string) []types.Paper {
	out := make([]types.Paper, 0, len(papers))
	for _, p := range papers {
		if p.Source == "" {
			p.Source = source
		}
		if p.Authors == nil {
			p.Authors = []string{}
		}
		out = append(out, p)
	}
	return out
}

func effectiveLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}

// FromConfig builds the enabled adapters in configured priority order.
func FromConfig(cfg types.SourcesConfig, logger *zap.Logger) ([]Adapter, error) {
	getter := &httputil.Getter{
		Client:    httputil.NewClient(cfg.HTTPConfig),
		UserAgent: cfg.UserAgent,
		Logger:    logger,
	}

	var adapters []Adapter
	for _, name := range cfg.Enabled {
		switch name {
		case types.SourceArxiv:
			adapters = append(adapters, &ArxivAdapter{Getter: getter, Logger: logger})
		case types.SourcePubMed:
			adapters = append(adapters, &PubMedAdapter{Getter: getter, APIKey: cfg.NCBIAPIKey, Logger: logger})
		case types.SourceSemanticScholar:
			adapters = append(adapters, &SemanticScholarAdapter{Getter: getter, APIKey: cfg.SemanticScholarAPIKey, Logger: logger})
		case types.SourceOpenAlex:
			adapters = append(adapters, &OpenAlexAdapter{Getter: getter, Email: cfg.OpenAlexEmail, Logger: logger})
		default:
			return nil, fmt.Errorf("unknown source %q (use arxiv, pubmed, semantic_scholar, openalex)", name)
		}
	}
	if len(adapters) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}
	return adapters, nil
}

func getterOrDefault(g *httputil.Getter, logger *zap.Logger) *httputil.Getter {
	if g != nil {
		return g
	}
	return &httputil.Getter{Client: httputil.NewClient(types.HTTPConfig{}), Logger: logger}
}
