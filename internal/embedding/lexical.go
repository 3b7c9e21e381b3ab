// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

const defaultLexicalDimensions = 1024

var lexicalToken = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*|\p{N}+`)

// LexicalModel is an offline embedder: stopword-filtered tokens are
// hashed into a fixed number of buckets with sublinear term frequency,
// and the vector is L2-normalized. It needs no corpus preparation, so
// query and document vectors share one space.
type LexicalModel struct {
	dims      int
	stopwords map[string]struct{}
}

// NewLexicalModel returns a lexical embedder with dims buckets.
func NewLexicalModel(dims int) *LexicalModel {
	if dims <= 0 {
		dims = defaultLexicalDimensions
	}
	return &LexicalModel{dims: dims, stopwords: defaultStopwords()}
}

// Name returns the backend identifier.
func (m *LexicalModel) Name() string { return "lexical" }

// EmbedBatch embeds each text independently.
func (m *LexicalModel) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.embed(t)
	}
	return out, nil
}

func (m *LexicalModel) embed(text string) []float32 {
	counts := make(map[int]float64)
	for _, tok := range m.tokens(text) {
		counts[bucket(tok, m.dims)]++
	}

	vec := make([]float32, m.dims)
	var norm float64
	for idx, c := range counts {
		w := 1 + math.Log(c)
		counts[idx] = w
		norm += w * w
	}
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for idx, w := range counts {
		vec[idx] = float32(w / norm)
	}
	return vec
}

func (m *LexicalModel) tokens(text string) []string {
	raw := lexicalToken.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := m.stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func bucket(token string, dims int) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % uint32(dims))
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by",
		"with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "its", "this", "that", "these",
		"those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into",
		"about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own",
		"same", "too", "very", "can", "will", "just", "should", "now", "we", "our", "which", "also",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
