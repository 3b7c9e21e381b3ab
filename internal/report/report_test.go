// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-scout/internal/aggregate"
	"github.com/pdiddy/paper-scout/internal/pipeline"
	"github.com/pdiddy/paper-scout/pkg/types"
)

func sampleResult() pipeline.Result {
	gnn := types.Paper{
		Title:      "Graph Neural Networks for Molecules",
		Abstract:   "We study GNNs.",
		Link:       "https://arxiv.org/abs/2401.00001v1",
		Source:     "arxiv",
		Authors:    []string{"Ada Lovelace", "Alan Turing"},
		Identifier: "2401.00001",
		Published:  time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}.WithScore(0.8123)
	doi := types.Paper{
		Title:      "Drug discovery review",
		Link:       "https://doi.org/10.1000/xyz",
		Source:     "openalex",
		Authors:    []string{"Plato"},
		Identifier: "10.1000/xyz",
	}.WithScore(0.5)
	return pipeline.Result{
		RunID:      "run-1",
		Query:      "gnn molecules",
		Candidates: 7,
		Papers:     []types.Paper{gnn, doi},
		Sources: []aggregate.Stats{
			{Source: "arxiv", Papers: 5, Elapsed: 1500 * time.Millisecond},
			{Source: "pubmed", Error: "HTTP 503"},
		},
	}
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(sampleResult(), &buf)
	out := buf.String()

	assert.Contains(t, out, "Rank")
	assert.Contains(t, out, "Graph Neural Networks for Molecules")
	assert.Contains(t, out, "Ada Lovelace et al.")
	assert.Contains(t, out, "2024")
	assert.Contains(t, out, "0.812")
	assert.Contains(t, out, "2 of 7 candidates")
	assert.Contains(t, out, "source pubmed failed: HTTP 503")
	assert.NotContains(t, out, "source arxiv failed")
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(pipeline.Result{}, &buf)
	assert.Equal(t, "No results found.\n", buf.String())
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(sampleResult(), &buf))

	var back pipeline.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "gnn molecules", back.Query)
	require.Len(t, back.Papers, 2)
	assert.InDelta(t, 0.8123, back.Papers[0].ScoreValue(), 1e-9)
}

func TestFormatCSL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatCSL(sampleResult().Papers, &buf))

	var items []CSLItem
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &items))
	require.Len(t, items, 2)

	want := CSLItem{
		ID:       "2401.00001",
		Type:     "article",
		Title:    "Graph Neural Networks for Molecules",
		Abstract: "We study GNNs.",
		Author: []CSLName{
			{Given: "Ada", Family: "Lovelace"},
			{Given: "Alan", Family: "Turing"},
		},
		Issued: &CSLDate{DateParts: [][]int{{2024, 1, 2}}},
		URL:    "https://arxiv.org/abs/2401.00001v1",
		Source: "arxiv",
	}
	if diff := cmp.Diff(want, items[0]); diff != "" {
		t.Errorf("CSL item mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "10.1000/xyz", items[1].DOI)
	assert.Equal(t, []CSLName{{Literal: "Plato"}}, items[1].Author)
	assert.Nil(t, items[1].Issued)
}

func TestCSLFallsBackToLinkForID(t *testing.T) {
	item := toCSLItem(types.Paper{Title: "x", Link: "https://pubmed.ncbi.nlm.nih.gov/1/"})
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/1/", item.ID)
}

func TestResultsFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.yaml")
	res := sampleResult()
	require.NoError(t, WriteResultsFile(path, res, 6, 10))

	rf, err := ReadResultsFile(path)
	require.NoError(t, err)
	assert.Equal(t, ResultsQuery{Text: "gnn molecules", TopK: 6, Limit: 10}, rf.Query)
	assert.Equal(t, "run-1", rf.Summary.RunID)
	assert.Equal(t, 2, rf.Summary.Returned)
	require.Len(t, rf.Papers, 2)
	assert.Equal(t, res.Papers[0].Title, rf.Papers[0].Title)
	assert.True(t, res.Papers[0].Published.Equal(rf.Papers[0].Published))
	assert.Equal(t, 1500*time.Millisecond, rf.Sources[0].Elapsed)
	assert.Equal(t, "HTTP 503", rf.Sources[1].Error)
}

func TestReadResultsFileMissing(t *testing.T) {
	_, err := ReadResultsFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestFormatSummaries(t *testing.T) {
	var buf bytes.Buffer
	FormatSummaries([]types.Summary{
		{Title: "A", Authors: []string{"X Y"}, Extractive: "One. Two.", Abstractive: "One. Two."},
		{Title: "B", Extractive: "Three.", Abstractive: "Rewritten."},
		{Title: "C"},
	}, &buf)
	out := buf.String()

	assert.Contains(t, out, "1. A\n   X Y\n   Key sentences: One. Two.\n")
	assert.Contains(t, out, "Summary: Rewritten.")
	assert.Equal(t, 1, strings.Count(out, "Summary:"))
	assert.Contains(t, out, "3. C\n   (no abstract)")
}
