// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank orders candidate papers by the cosine similarity between
// the query and each paper's abstract.
package rank

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/embedding"
	"github.com/pdiddy/paper-scout/internal/logging"
	"github.com/pdiddy/paper-scout/pkg/types"
)

// Embedder maps texts to vectors in one call.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Ranker scores candidates against a query.
type Ranker struct {
	embedder Embedder
	logger   *zap.Logger
}

// New returns a Ranker backed by e.
func New(e Embedder, logger *zap.Logger) *Ranker {
	return &Ranker{embedder: e, logger: logging.OrNop(logger)}
}

type scored struct {
	index int
	score float64
}

// Rank returns at most topK candidates, most similar first, each carrying
// its score. Candidates with an empty abstract are not eligible. Equal
// scores keep their input order. An empty query, an empty candidate list,
// no eligible candidate, or topK <= 0 yield an empty result without any
// embedding call. The input slice is not modified.
func (r *Ranker) Rank(ctx context.Context, query string, candidates []types.Paper, topK int) ([]types.Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" || len(candidates) == 0 || topK <= 0 {
		return []types.Paper{}, nil
	}

	eligible := make([]int, 0, len(candidates))
	texts := []string{query}
	for i, c := range candidates {
		if strings.TrimSpace(c.Abstract) == "" {
			continue
		}
		eligible = append(eligible, i)
		texts = append(texts, c.Abstract)
	}
	if len(eligible) == 0 {
		r.logger.Debug("no candidate has an abstract", zap.Int("candidates", len(candidates)))
		return []types.Paper{}, nil
	}

	vecs, err := r.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding query and %d abstracts: %w", len(eligible), err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(texts))
	}

	queryVec := vecs[0]
	scores := make([]scored, len(eligible))
	for j, idx := range eligible {
		scores[j] = scored{index: idx, score: embedding.Similarity(queryVec, vecs[j+1])}
	}
	slices.SortStableFunc(scores, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		default:
			return 0
		}
	})
	scores = scores[:min(topK, len(scores))]

	ranked := make([]types.Paper, len(scores))
	for i, s := range scores {
		ranked[i] = candidates[s.index].WithScore(s.score)
	}
	r.logger.Debug("ranked candidates",
		zap.Int("candidates", len(candidates)),
		zap.Int("eligible", len(eligible)),
		zap.Int("returned", len(ranked)))
	return ranked, nil
}
