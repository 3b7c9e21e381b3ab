// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extractive selects the sentences of a document that are most
// representative of the document as a whole.
package extractive

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-scout/internal/embedding"
	"github.com/pdiddy/paper-scout/internal/logging"
)

// Embedder maps texts to vectors in one call.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Summarizer scores each sentence by cosine similarity to the embedding
// of the whole document and keeps the best ones in reading order.
type Summarizer struct {
	embedder  Embedder
	segmenter Segmenter
	logger    *zap.Logger
}

// New returns a Summarizer. A nil segmenter selects the Punkt segmenter.
func New(e Embedder, seg Segmenter, logger *zap.Logger) (*Summarizer, error) {
	if seg == nil {
		p, err := NewPunktSegmenter()
		if err != nil {
			return nil, fmt.Errorf("loading sentence segmenter: %w", err)
		}
		seg = p
	}
	return &Summarizer{embedder: e, segmenter: seg, logger: logging.OrNop(logger)}, nil
}

// Summarize returns the topN most representative sentences of text,
// joined by single spaces in their original order. Empty text, text with
// no sentences, and topN <= 0 return "". When topN covers every
// sentence the whole text is returned re-joined without embedding.
func (s *Summarizer) Summarize(ctx context.Context, text string, topN int) (string, error) {
	if strings.TrimSpace(text) == "" || topN <= 0 {
		return "", nil
	}
	sents := s.segmenter.Segment(text)
	if len(sents) == 0 {
		return "", nil
	}
	if topN >= len(sents) {
		return strings.Join(sents, " "), nil
	}

	texts := make([]string, 0, len(sents)+1)
	texts = append(texts, text)
	texts = append(texts, sents...)
	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return "", fmt.Errorf("embedding document and %d sentences: %w", len(sents), err)
	}
	if len(vecs) != len(texts) {
		return "", fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(texts))
	}

	docVec := vecs[0]
	order := make([]int, len(sents))
	scores := make([]float64, len(sents))
	for i := range sents {
		order[i] = i
		scores[i] = embedding.Similarity(docVec, vecs[i+1])
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case scores[a] > scores[b]:
			return -1
		case scores[a] < scores[b]:
			return 1
		default:
			return 0
		}
	})

	selected := order[:topN]
	// Reading order, not score order.
	sort.Ints(selected)

	out := make([]string, len(selected))
	for i, idx := range selected {
		out[i] = sents[idx]
	}
	s.logger.Debug("extractive summary",
		zap.Int("sentences", len(sents)),
		zap.Int("selected", len(selected)))
	return strings.Join(out, " "), nil
}
