// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicalModelNormalized(t *testing.T) {
	m := NewLexicalModel(128)
	vecs, err := m.EmbedBatch(context.Background(), []string{"Protein folding with deep networks", ""})
	require.NoError(t, err)
	require.Len(t, vecs, 2)

	var norm float64
	for _, v := range vecs[0] {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)

	for _, v := range vecs[1] {
		assert.Zero(t, v, "empty text embeds to the zero vector")
	}
}

func TestLexicalModelSharedVocabularyScoresHigher(t *testing.T) {
	p := NewStaticProvider(NewLexicalModel(0))
	vecs, err := p.EmbedBatch(context.Background(), []string{
		"protein structure prediction",
		"deep learning predicts protein structure",
		"jazz improvisation in the 1950s",
	})
	require.NoError(t, err)

	related := Similarity(vecs[0], vecs[1])
	unrelated := Similarity(vecs[0], vecs[2])
	assert.Greater(t, related, unrelated)
}

func TestLexicalModelIgnoresStopwordsAndCase(t *testing.T) {
	m := NewLexicalModel(256)
	vecs, err := m.EmbedBatch(context.Background(), []string{"The Cell", "cell"})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, Similarity(vecs[0], vecs[1]), 1e-6)
}
