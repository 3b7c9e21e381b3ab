// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pdiddy/paper-scout/internal/embedding"
	"github.com/pdiddy/paper-scout/internal/extractive"
	"github.com/pdiddy/paper-scout/internal/generate"
	"github.com/pdiddy/paper-scout/internal/rank"
	"github.com/pdiddy/paper-scout/internal/sources"
	"github.com/pdiddy/paper-scout/internal/synthesis"
	"github.com/pdiddy/paper-scout/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// wordModel is a bag-of-words embedding model over a fixed vocabulary.
type wordModel struct{}

var (
	vocab  = []string{"graph", "neural", "molecules", "drug", "deep", "learning", "jazz", "history", "cats", "sleep", "purr", "mammals", "mitochondria", "cell"}
	wordRe = regexp.MustCompile(`[a-z]+`)
)

func (wordModel) Name() string { return "words" }

func (wordModel) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, len(vocab))
		for _, w := range wordRe.FindAllString(strings.ToLower(t), -1) {
			for j, term := range vocab {
				if w == term {
					v[j]++
				}
			}
		}
		out[i] = v
	}
	return out, nil
}

type fakeAdapter struct {
	name   string
	papers []types.Paper
	err    error
	calls  atomic.Int32
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Fetch(context.Context, string, int) ([]types.Paper, error) {
	f.calls.Add(1)
	return f.papers, f.err
}

type stubGenerator struct {
	reply string
	err   error
}

func (g stubGenerator) Name() string { return "stub" }

func (g stubGenerator) Generate(context.Context, generate.Request) (string, error) {
	return g.reply, g.err
}

func newEngine(t *testing.T, provider *embedding.Provider, adapters ...sources.Adapter) *Engine {
	t.Helper()
	summ, err := extractive.New(provider, nil, nil)
	require.NoError(t, err)
	return &Engine{
		Adapters:   adapters,
		Ranker:     rank.New(provider, nil),
		Summarizer: summ,
		Limit:      10,
	}
}

func TestRetrieveAndRankToleratesSourceFailure(t *testing.T) {
	bad := &fakeAdapter{name: "arxiv", err: errors.New("HTTP 503")}
	good := &fakeAdapter{name: "pubmed", papers: []types.Paper{
		{Title: "jazz", Abstract: "A history of jazz.", Link: "l1"},
		{Title: "gnn", Abstract: "Graph neural networks for drug molecules.", Link: "l2"},
		{Title: "empty", Abstract: "", Link: "l3"},
	}}
	e := newEngine(t, embedding.NewStaticProvider(wordModel{}), bad, good)

	res, err := e.RetrieveAndRank(context.Background(), "deep learning for molecules", 5)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 3, res.Candidates)
	require.Len(t, res.Papers, 2)
	assert.Equal(t, "gnn", res.Papers[0].Title)
	assert.Equal(t, "pubmed", res.Papers[0].Source)
	assert.True(t, res.Papers[0].HasScore())

	require.Len(t, res.Sources, 2)
	assert.Equal(t, "arxiv", res.Sources[0].Source)
	assert.Contains(t, res.Sources[0].Error, "503")
	assert.Equal(t, 3, res.Sources[1].Papers)
}

func TestRetrieveAndRankEmptyQuery(t *testing.T) {
	a := &fakeAdapter{name: "arxiv"}
	e := newEngine(t, embedding.NewStaticProvider(wordModel{}), a)

	res, err := e.RetrieveAndRank(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, res.Papers)
	assert.NotNil(t, res.Papers)
	assert.Zero(t, a.calls.Load())
}

func TestRetrieveAndRankNoCandidates(t *testing.T) {
	e := newEngine(t, embedding.NewStaticProvider(wordModel{}),
		&fakeAdapter{name: "a", err: errors.New("down")},
		&fakeAdapter{name: "b"})

	res, err := e.RetrieveAndRank(context.Background(), "deep learning", 5)
	require.NoError(t, err)
	assert.Zero(t, res.Candidates)
	assert.Empty(t, res.Papers)
}

func TestRetrieveAndRankModelUnavailable(t *testing.T) {
	provider := embedding.NewProvider(func(context.Context) (embedding.Model, error) {
		return nil, errors.New("ollama not running")
	}, nil)
	good := &fakeAdapter{name: "pubmed", papers: []types.Paper{{Title: "x", Abstract: "graph"}}}
	e := newEngine(t, provider, good)

	_, err := e.RetrieveAndRank(context.Background(), "graph", 3)
	assert.ErrorIs(t, err, embedding.ErrModelUnavailable)
}

const catsAbstract = "Cats are mammals. Cats often sleep. The mitochondria is the powerhouse of the cell. Many cats purr."

func TestSummarizePapersExtractiveOnly(t *testing.T) {
	e := newEngine(t, embedding.NewStaticProvider(wordModel{}))
	papers := []types.Paper{
		{Title: "cats", Abstract: catsAbstract, Link: "l1", Source: "arxiv"},
		{Title: "no abstract", Link: "l2", Source: "pubmed"},
	}

	got, err := e.SummarizePapers(context.Background(), papers, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "cats", got[0].Title)
	assert.NotContains(t, got[0].Extractive, "mitochondria")
	assert.Equal(t, got[0].Extractive, got[0].Abstractive)
	assert.Equal(t, "arxiv", got[0].Source)
	assert.NotNil(t, got[0].Authors)

	assert.Equal(t, "no abstract", got[1].Title)
	assert.Equal(t, "", got[1].Extractive)
	assert.Equal(t, "", got[1].Abstractive)
}

func TestSummarizePapersAbstractive(t *testing.T) {
	e := newEngine(t, embedding.NewStaticProvider(wordModel{}))
	e.Synth = &synthesis.Synthesizer{Gen: stubGenerator{reply: " Cats mostly **sleep**. "}}

	got, err := e.SummarizePapers(context.Background(), []types.Paper{{Title: "cats", Abstract: catsAbstract}}, 2)
	require.NoError(t, err)
	assert.Equal(t, "Cats mostly **sleep**.", got[0].Abstractive)
	assert.NotEqual(t, got[0].Extractive, got[0].Abstractive)
}

func TestSummarizePapersAbstractiveFallback(t *testing.T) {
	for _, gen := range []generate.Generator{
		stubGenerator{err: errors.New("rate limited")},
		stubGenerator{reply: "   "},
		nil,
	} {
		e := newEngine(t, embedding.NewStaticProvider(wordModel{}))
		e.Synth = &synthesis.Synthesizer{Gen: gen}

		got, err := e.SummarizePapers(context.Background(), []types.Paper{{Title: "cats", Abstract: catsAbstract}}, 2)
		require.NoError(t, err)
		assert.NotEmpty(t, got[0].Extractive)
		assert.Equal(t, got[0].Extractive, got[0].Abstractive)
	}
}

func TestSummarizePapersKeepsOrder(t *testing.T) {
	e := newEngine(t, embedding.NewStaticProvider(wordModel{}))
	var papers []types.Paper
	for i := range 12 {
		papers = append(papers, types.Paper{Title: fmt.Sprintf("p%02d", i), Abstract: "Cats sleep. Cats purr."})
	}
	got, err := e.SummarizePapers(context.Background(), papers, 1)
	require.NoError(t, err)
	for i, s := range got {
		assert.Equal(t, fmt.Sprintf("p%02d", i), s.Title)
	}
}

func TestSummarizePapersEmbeddingFailure(t *testing.T) {
	provider := embedding.NewProvider(func(context.Context) (embedding.Model, error) {
		return nil, errors.New("no weights")
	}, nil)
	e := newEngine(t, provider)

	_, err := e.SummarizePapers(context.Background(), []types.Paper{{Title: "cats", Abstract: catsAbstract}}, 2)
	assert.ErrorIs(t, err, embedding.ErrModelUnavailable)
}
